// Package engine is the composition root of the slideshow. It turns a
// Config into independent Carousel instances, each owning a position store, a
// transition controller, a gesture adapter and the set of slides mounted on a
// Renderer. Frontends (terminal, line protocol, websocket) drive carousels
// through Carousel methods or decoded commands, observe activity through an
// EventBus, and draw from Frame snapshots.
package engine
