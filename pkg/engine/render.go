package engine

import (
	"github.com/germanamz/slideshow/pkg/window"
)

// Renderer is the slide renderer collaborator. The engine mounts every slide
// of the current window exactly once per key and unmounts it when it leaves
// the window. Placeholders are never mounted.
type Renderer interface {
	Mount(key, id string)
	Unmount(key string)
}

type nopRenderer struct{}

func (nopRenderer) Mount(string, string) {}
func (nopRenderer) Unmount(string)       {}

// mountSet tracks which keys are mounted on a Renderer.
type mountSet struct {
	r       Renderer
	mounted map[string]string // key -> id
	order   []string
}

func newMountSet(r Renderer) *mountSet {
	if r == nil {
		r = nopRenderer{}
	}
	return &mountSet{r: r, mounted: make(map[string]string)}
}

// sync unmounts keys missing from slots, in mount order, then mounts new
// keys in window order.
func (m *mountSet) sync(slots []window.Slot) {
	want := make(map[string]string, len(slots))
	for _, s := range slots {
		if !s.Empty {
			want[s.Key] = s.ID
		}
	}

	kept := m.order[:0]
	for _, key := range m.order {
		id := m.mounted[key]
		if wantID, ok := want[key]; ok && wantID == id {
			kept = append(kept, key)
			continue
		}
		delete(m.mounted, key)
		m.r.Unmount(key)
	}
	m.order = kept

	for _, s := range slots {
		if s.Empty {
			continue
		}
		if _, ok := m.mounted[s.Key]; ok {
			continue
		}
		m.mounted[s.Key] = s.ID
		m.order = append(m.order, s.Key)
		m.r.Mount(s.Key, s.ID)
	}
}

// keys returns the mounted keys in mount order.
func (m *mountSet) keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *mountSet) clear() {
	m.sync(nil)
}
