package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// slideRenderer renders slide markdown with glamour. It implements
// engine.Renderer: mounted slides are rendered once per width and cached,
// unmounted ones are dropped from the cache.
type slideRenderer struct {
	source map[string]string // id -> markdown
	style  string
	log    *slog.Logger

	mu       sync.Mutex
	width    int
	md       *glamour.TermRenderer
	rendered map[string]string // key -> output
	keys     map[string]string // key -> id
}

func newSlideRenderer(source map[string]string, style string, log *slog.Logger) *slideRenderer {
	return &slideRenderer{
		source:   source,
		style:    style,
		log:      log,
		rendered: make(map[string]string),
		keys:     make(map[string]string),
	}
}

// Mount renders the slide ahead of time.
func (r *slideRenderer) Mount(key, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.keys[key] = id
	if r.md != nil {
		r.rendered[key] = r.renderLocked(id)
	}
	r.log.Debug("slide mounted", "key", key, "id", id)
}

// Unmount drops a slide from the cache.
func (r *slideRenderer) Unmount(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, key)
	delete(r.rendered, key)
	r.log.Debug("slide unmounted", "key", key)
}

// SetWidth re-creates the markdown renderer for a new pane width and
// re-renders every mounted slide.
func (r *slideRenderer) SetWidth(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || (width == r.width && r.md != nil) {
		return
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle(r.style)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r.log.Warn("markdown renderer", "error", err)
		return
	}
	r.md = md
	r.width = width

	clear(r.rendered)
	for key, id := range r.keys {
		r.rendered[key] = r.renderLocked(id)
	}
}

// Content returns the rendered slide with the given id, rendering it on
// demand when it is not mounted.
func (r *slideRenderer) Content(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, kid := range r.keys {
		if kid != id {
			continue
		}
		if out, ok := r.rendered[key]; ok {
			return out
		}
	}
	return r.renderLocked(id)
}

// Mounted returns the number of mounted slides.
func (r *slideRenderer) Mounted() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.keys)
}

func (r *slideRenderer) renderLocked(id string) string {
	text, ok := r.source[id]
	if !ok || text == "" {
		text = "# " + id
	}
	if r.md == nil {
		return text
	}

	out, err := r.md.Render(text)
	if err != nil {
		r.log.Warn("render slide", "id", id, "error", err)
		return text
	}
	return strings.Trim(out, "\n")
}

func markdownStyle(name string) glamouransi.StyleConfig {
	switch name {
	case "light":
		return glamourstyles.LightStyleConfig
	case "notty", "plain":
		return glamourstyles.NoTTYStyleConfig
	default:
		return glamourstyles.DarkStyleConfig
	}
}
