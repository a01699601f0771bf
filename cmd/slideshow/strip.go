package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/germanamz/slideshow/pkg/deck"
	"github.com/germanamz/slideshow/pkg/engine"
	"github.com/germanamz/slideshow/pkg/transition"
	"github.com/germanamz/slideshow/pkg/window"
)

// cellPixels converts the configured 3d gap from pixels to terminal cells.
const cellPixels = 8

// paneFunc returns the rendered content of a slide.
type paneFunc func(id string) string

// view is what the TUI needs to draw one frame.
type view struct {
	frame    engine.Frame
	progress float64 // linear motion progress in [0,1]; ignored when idle
	ease     transition.Easing
	width    int
	height   int
}

func (v view) eased() float64 {
	p := min(max(v.progress, 0), 1)
	if v.ease == nil {
		return p
	}
	return v.ease(p)
}

// renderView draws v into exactly width×height cells.
func renderView(v view, content paneFunc) string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	f := v.frame
	switch f.Mode {
	case engine.ModeEmpty:
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, emptyStyle.Render("No slides"))
	case engine.ModeSingle, engine.ModeStatic:
		return join(fitPane(content(f.Selected.ID), v.width, v.height))
	}

	if f.Phase != transition.Animating {
		return join(slotPane(f.Window[window.Center(f.Width)], content, v.width, v.height))
	}

	switch f.Style {
	case transition.Fade:
		return join(crossfade(f, v, content))
	case transition.Zoom:
		return join(zoom(f, v, content))
	default:
		return join(strip(f, v, content))
	}
}

// strip draws the whole window as one strip and cuts the viewport out of it
// at the interpolated offset.
func strip(f engine.Frame, v view, content paneFunc) []string {
	gap := 0
	if f.Style == transition.Carousel3D {
		gap = max(f.Gap/cellPixels, 1)
	}

	inner := transition.Offset(f.Motion, v.progress, v.ease)
	pos := -transition.StripOffset(f.Width, inner) / 100

	panes := make([][]string, len(f.Window))
	for i, s := range f.Window {
		panes[i] = slotPane(s, content, v.width, v.height)
	}

	if f.Policy.Axis == deck.Vertical {
		return cutVertical(panes, v.height, gap, int(math.Round(pos*float64(v.height+gap))))
	}
	return cutHorizontal(panes, v.width, gap, int(math.Round(pos*float64(v.width+gap))))
}

// cutHorizontal lays panes out left to right and returns the width columns
// starting at x.
func cutHorizontal(panes [][]string, width, gap, x int) []string {
	if len(panes) == 0 {
		return nil
	}
	height := len(panes[0])
	x = min(max(x, 0), (len(panes)-1)*(width+gap))
	spacer := strings.Repeat(" ", gap)

	out := make([]string, height)
	for row := range height {
		var sb strings.Builder
		for i, p := range panes {
			if i > 0 {
				sb.WriteString(spacer)
			}
			sb.WriteString(p[row])
		}
		line := ansi.Truncate(ansi.TruncateLeft(sb.String(), x, ""), width, "")
		out[row] = padRight(line, width)
	}
	return out
}

// cutVertical stacks panes top to bottom and returns the height lines
// starting at y.
func cutVertical(panes [][]string, height, gap, y int) []string {
	if len(panes) == 0 {
		return nil
	}
	width := ansi.StringWidth(panes[0][0])
	blank := strings.Repeat(" ", width)

	var all []string
	for i, p := range panes {
		if i > 0 {
			for range gap {
				all = append(all, blank)
			}
		}
		all = append(all, p...)
	}

	y = min(max(y, 0), len(all)-height)
	return all[y : y+height]
}

// crossfade dims the outgoing slide, then brings in the incoming one.
func crossfade(f engine.Frame, v view, content paneFunc) []string {
	from, to := endpoints(f, content, v.width, v.height)
	switch t := v.eased(); {
	case t < 0.25:
		return from
	case t < 0.5:
		return dim(from)
	case t < 0.75:
		return dim(to)
	default:
		return to
	}
}

// zoom shrinks the outgoing slide towards the centre and grows the incoming
// one back to full size.
func zoom(f engine.Frame, v view, content paneFunc) []string {
	t := v.eased()
	d := 1 - math.Abs(1-2*t) // 0 at the ends, 1 halfway
	mx := int(math.Round(d * float64(v.width) / 4))
	my := int(math.Round(d * float64(v.height) / 4))
	w, h := max(v.width-2*mx, 1), max(v.height-2*my, 1)

	slot := f.Window[window.Center(f.Width)]
	if t >= 0.5 {
		slot = target(f)
	}

	inner := join(slotPane(slot, content, w, h))
	return fitPane(lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, inner), v.width, v.height)
}

// endpoints returns the panes of the current and incoming slides.
func endpoints(f engine.Frame, content paneFunc, w, h int) ([]string, []string) {
	from := slotPane(f.Window[window.Center(f.Width)], content, w, h)
	to := slotPane(target(f), content, w, h)
	return from, to
}

// target is the slot the motion ends on: one pane past the centre in the
// direction of travel.
func target(f engine.Frame) window.Slot {
	step := int(math.Round((f.Motion.From - f.Motion.To) / 100))
	i := min(max(window.Center(f.Width)+step, 0), len(f.Window)-1)
	return f.Window[i]
}

func slotPane(s window.Slot, content paneFunc, w, h int) []string {
	if s.Empty {
		return fitPane("", w, h)
	}
	return fitPane(content(s.ID), w, h)
}

// fitPane cuts or pads content to exactly w×h cells.
func fitPane(content string, w, h int) []string {
	lines := splitLines(content)
	out := make([]string, h)
	for i := range out {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		out[i] = padRight(ansi.Truncate(line, w, ""), w)
	}
	return out
}

func dim(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = dimStyle.Render(ansi.Strip(l))
	}
	return out
}

func join(lines []string) string {
	return strings.Join(lines, "\n")
}

// splitLines splits a string on newlines, returning at least one element.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
