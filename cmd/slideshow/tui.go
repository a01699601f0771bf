package main

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/germanamz/slideshow/pkg/engine"
	"github.com/germanamz/slideshow/pkg/gesture"
	"github.com/germanamz/slideshow/pkg/transition"
)

// tuiDriver is the visual driver of the TUI. Motions are started from inside
// Update, so they are parked here and picked up by the model after every
// command instead of being sent to the program.
type tuiDriver struct {
	mu      sync.Mutex
	pending *transition.Motion
}

func (d *tuiDriver) Animate(m transition.Motion) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &m
}

func (d *tuiDriver) take() (transition.Motion, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil {
		return transition.Motion{}, false
	}
	m := *d.pending
	d.pending = nil
	return m, true
}

// frameMsg advances the motion with the given sequence number.
type frameMsg struct {
	seq uint64
	at  time.Time
}

func tickCmd(seq uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{seq: seq, at: t}
	})
}

// tuiModel is the root bubbletea model.
type tuiModel struct {
	c        *engine.Carousel
	slides   *slideRenderer
	driver   *tuiDriver
	keys     keyMap
	help     help.Model
	ease     transition.Easing
	interval time.Duration
	now      func() time.Time

	width     int
	height    int
	editing   bool
	random    bool
	motion    transition.Motion
	animating bool
	started   time.Time
	progress  float64
	status    string
	failed    bool
}

type tuiOptions struct {
	ease     transition.Easing
	interval time.Duration
	editing  bool
	random   bool
}

func newTUIModel(c *engine.Carousel, slides *slideRenderer, driver *tuiDriver, opts tuiOptions) tuiModel {
	return tuiModel{
		c:        c,
		slides:   slides,
		driver:   driver,
		keys:     newKeyMap(c.Frame().Policy.Axis),
		help:     help.New(),
		ease:     opts.ease,
		interval: opts.interval,
		now:      time.Now,
		editing:  opts.editing,
		random:   opts.random,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.slides.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		return m.handleFrame(msg)
	}

	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.failed = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Forward):
		m.c.Gestures().Handle(gesture.ForwardSwipe)
	case key.Matches(msg, m.keys.Back):
		m.c.Gestures().Handle(gesture.BackwardSwipe)
	case key.Matches(msg, m.keys.Next):
		m.c.Next()
	case key.Matches(msg, m.keys.Prev):
		m.c.Prev()
	case key.Matches(msg, m.keys.Jump):
		n, _ := strconv.Atoi(msg.String())
		if err := m.c.Set(n - 1); err != nil {
			m.status, m.failed = err.Error(), true
		}
	case key.Matches(msg, m.keys.Edit):
		m.editing = !m.editing
		m.c.SetEditing(m.editing)
	case key.Matches(msg, m.keys.Random):
		m.random = !m.random
		m.c.SetRandom(m.random)
	default:
		return m, nil
	}

	return m.sync()
}

func (m tuiModel) handleFrame(msg frameMsg) (tea.Model, tea.Cmd) {
	if !m.animating || msg.seq != m.motion.Seq {
		return m, nil
	}

	m.progress = transition.Progress(msg.at.Sub(m.started), m.motion.Duration)
	if m.progress < 1 {
		return m, tickCmd(m.motion.Seq, m.interval)
	}

	m.animating = false
	m.c.Complete(m.motion.Seq)
	return m.sync()
}

// sync starts a motion parked by the driver, or drops the local animation
// when the carousel snapped it.
func (m tuiModel) sync() (tea.Model, tea.Cmd) {
	if mo, ok := m.driver.take(); ok {
		m.motion = mo
		m.animating = true
		m.started = m.now()
		m.progress = 0
		return m, tickCmd(mo.Seq, m.interval)
	}

	if m.animating && m.c.Phase() != transition.Animating {
		m.animating = false
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	body := renderView(view{
		frame:    m.frame(),
		progress: m.progress,
		ease:     m.ease,
		width:    m.width,
		height:   max(m.height-2, 1),
	}, m.slides.Content)

	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

// frame returns the carousel frame as the model sees it: a motion the model
// has not picked up yet is drawn at rest.
func (m tuiModel) frame() engine.Frame {
	f := m.c.Frame()
	if f.Phase == transition.Animating && (!m.animating || f.Motion.Seq != m.motion.Seq) {
		f.Phase = transition.Idle
	}
	return f
}

func (m tuiModel) header() string {
	f := m.c.Frame()

	pos := "-/0"
	if f.State.Length > 0 {
		pos = fmt.Sprintf("%d/%d", f.State.Index+1, f.State.Length)
	}

	var badges string
	if m.editing {
		badges += " [editing]"
	}
	if m.random {
		badges += " [shuffled]"
	}

	line := titleStyle.Render(m.c.Name()) + " " + positionStyle.Render(pos) + badgeStyle.Render(badges)
	return ansi.Truncate(line, m.width, "")
}

func (m tuiModel) footer() string {
	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		return style.Render(runewidth.Truncate(m.status, m.width, "…"))
	}
	return m.help.View(m.keys)
}
