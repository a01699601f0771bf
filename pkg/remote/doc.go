// Package remote exposes a carousel over a line protocol. Each inbound
// message is one JSON command (see package command) and each outbound message
// is one JSON event:
//
//	{"event":"state","instance":"…","index":2,"length":5}
//	{"event":"transition_start","instance":"…","seq":3,"movement":"forward",…}
//	{"event":"settled","instance":"…","reason":"settled","keys":["b","c","d"],…}
//	{"event":"error","instance":"…","message":"…"}
//
// ServeLines speaks it over any reader/writer pair (stdio, pipes) and Handler
// over a websocket. A remote visual driver acknowledges a transition_start by
// sending {"type":"COMPLETE","args":{"seq":3}}; TimerDriver does that locally.
//
// Events are buffered per connection. When a slow peer lets the buffer fill,
// the engine drops events for it; the session then resends the current state
// followed by the transition_start of the motion still in flight, if any.
package remote
