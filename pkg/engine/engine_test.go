package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/slideshow/pkg/command"
	"github.com/germanamz/slideshow/pkg/gesture"
	"github.com/germanamz/slideshow/pkg/indexmath"
	"github.com/germanamz/slideshow/pkg/store"
	"github.com/germanamz/slideshow/pkg/transition"
	"github.com/germanamz/slideshow/pkg/window"
)

type motionLog struct {
	motions []transition.Motion
}

func (l *motionLog) Animate(m transition.Motion) { l.motions = append(l.motions, m) }

func (l *motionLog) last(t *testing.T) transition.Motion {
	t.Helper()
	require.NotEmpty(t, l.motions)
	return l.motions[len(l.motions)-1]
}

func slideConfigs(ids ...string) []SlideConfig {
	out := make([]SlideConfig, len(ids))
	for i, id := range ids {
		out[i] = SlideConfig{ID: id}
	}
	return out
}

type fixture struct {
	eng      *Engine
	c        *Carousel
	driver   *motionLog
	renderer *recordingRenderer
}

func newFixture(t *testing.T, cc CarouselConfig, opts ...Option) *fixture {
	t.Helper()
	if cc.Name == "" {
		cc.Name = "test"
	}

	eng, err := New(Config{Carousels: []CarouselConfig{cc}}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	f := &fixture{eng: eng, driver: &motionLog{}, renderer: &recordingRenderer{}}
	f.c, err = eng.NewCarousel("", WithDriver(f.driver), WithRenderer(f.renderer))
	require.NoError(t, err)

	return f
}

func ids(slots []window.Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		if s.Empty {
			out[i] = "_"
		} else {
			out[i] = s.ID
		}
	}
	return out
}

func TestEngine_New_InvalidConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestEngine_NewCarousel(t *testing.T) {
	eng, err := New(Config{
		Entry: "b",
		Carousels: []CarouselConfig{
			{Name: "a", Slides: slideConfigs("x")},
			{Name: "b", Slides: slideConfigs("y", "z")},
		},
	})
	require.NoError(t, err)
	defer func() { _ = eng.Close() }()

	c1, err := eng.NewCarousel("")
	require.NoError(t, err)
	assert.Equal(t, "b", c1.Name())
	assert.NotEmpty(t, c1.ID())

	c2, err := eng.NewCarousel("b")
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID(), c2.ID())

	found, ok := eng.Carousel(c1.ID())
	require.True(t, ok)
	assert.Same(t, c1, found)
	assert.Len(t, eng.Carousels(), 2)

	_, err = eng.NewCarousel("missing")
	assert.Error(t, err)
}

func TestEngine_InstancesAreIndependent(t *testing.T) {
	eng, err := New(Config{Carousels: []CarouselConfig{{Name: "a", Slides: slideConfigs("x", "y", "z")}}})
	require.NoError(t, err)
	defer func() { _ = eng.Close() }()

	c1, err := eng.NewCarousel("a")
	require.NoError(t, err)
	c2, err := eng.NewCarousel("a")
	require.NoError(t, err)

	require.NoError(t, c1.Set(2))

	assert.Equal(t, 2, c1.State().Index)
	assert.Equal(t, 0, c2.State().Index)
}

func TestEngine_Release(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b")})

	f.eng.Release(f.c.ID())

	_, ok := f.eng.Carousel(f.c.ID())
	assert.False(t, ok)
	assert.Empty(t, f.c.Mounted())
}

func TestEngine_CloseRejectsNewCarousels(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a")})
	require.NoError(t, f.eng.Close())

	_, err := f.eng.NewCarousel("")
	assert.Error(t, err)
}

func TestCarousel_InitialMount(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e"), Infinite: true})

	assert.Equal(t, []string{"+e=e", "+a=a", "+b=b"}, f.renderer.calls)
	assert.Equal(t, []string{"e", "a", "b"}, f.c.Mounted())
}

func TestCarousel_NextAnimatesThenSettles(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e"), Infinite: true, Speed: 300})
	f.renderer.reset()

	f.c.Next()

	m := f.driver.last(t)
	assert.Equal(t, indexmath.Forward, m.Movement)
	assert.InDelta(t, -100.0, m.From, 1e-9)
	assert.InDelta(t, -200.0, m.To, 1e-9)
	assert.Equal(t, 300*time.Millisecond, m.Duration)
	assert.Equal(t, transition.Animating, f.c.Phase())
	assert.Empty(t, f.renderer.calls, "mounts wait for completion")

	f.c.Complete(m.Seq)

	assert.Equal(t, transition.Idle, f.c.Phase())
	assert.Equal(t, []string{"-e", "+c=c"}, f.renderer.calls)
	assert.Equal(t, []string{"a", "b", "c"}, f.c.Mounted())
}

func TestCarousel_WrapBackward(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c"), Infinite: true})

	f.c.Prev()

	assert.Equal(t, store.State{Index: 2, Length: 3}, f.c.State())
	m := f.driver.last(t)
	assert.Equal(t, indexmath.Backward, m.Movement)
	assert.InDelta(t, 0.0, m.To, 1e-9)

	f.c.Complete(m.Seq)
	assert.Equal(t, []string{"b", "c", "a"}, ids(f.c.Frame().Window))
}

func TestCarousel_FiniteBoundary(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})

	f.c.Prev()

	assert.Equal(t, 0, f.c.State().Index)
	assert.Empty(t, f.driver.motions)
	assert.Equal(t, []string{"_", "a", "b"}, ids(f.c.Frame().Window))
}

func TestCarousel_SetJumpsWithoutAnimation(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e")})
	f.renderer.reset()

	require.NoError(t, f.c.Set(3))

	assert.Empty(t, f.driver.motions)
	assert.Equal(t, transition.Idle, f.c.Phase())
	assert.Equal(t, []string{"c", "d", "e"}, ids(f.c.Frame().Window))
	assert.Equal(t, []string{"-a", "-b", "+c=c", "+d=d", "+e=e"}, f.renderer.calls)
}

func TestCarousel_SetOutOfRange(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b")})

	err := f.c.Set(5)
	require.Error(t, err)

	var oor *store.OutOfRangeError
	require.True(t, errors.As(err, &oor))
	assert.Equal(t, 5, oor.Index)
	assert.Equal(t, store.State{Index: 0, Length: 2}, f.c.State())
}

func TestCarousel_NewCommandSnapsInFlightMotion(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e")})

	f.c.Next()
	first := f.driver.last(t)
	f.c.Next()

	assert.Len(t, f.driver.motions, 1, "second command snaps instead of queueing")
	assert.Equal(t, transition.Idle, f.c.Phase())
	assert.Equal(t, []string{"b", "c", "d"}, ids(f.c.Frame().Window))

	f.c.Complete(first.Seq) // stale
	assert.Equal(t, []string{"b", "c", "d"}, ids(f.c.Frame().Window))
}

func TestCarousel_SingleSlide(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("only"), Infinite: true})

	f.c.Next()
	f.c.Prev()

	assert.Empty(t, f.driver.motions)
	frame := f.c.Frame()
	assert.Equal(t, ModeSingle, frame.Mode)
	assert.Equal(t, "only", frame.Selected.ID)
}

func TestCarousel_Empty(t *testing.T) {
	f := newFixture(t, CarouselConfig{})

	f.c.Next()
	assert.Error(t, f.c.Set(0))

	frame := f.c.Frame()
	assert.Equal(t, ModeEmpty, frame.Mode)
	assert.Nil(t, frame.Window)
	assert.Empty(t, f.c.Mounted())
}

func TestCarousel_ShrinkClampsIndex(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e")})
	require.NoError(t, f.c.Set(4))

	f.c.SetSlides([]string{"a", "b", "c"})

	assert.Equal(t, store.State{Index: 2, Length: 3}, f.c.State())
	assert.Equal(t, []string{"b", "c", "_"}, ids(f.c.Frame().Window))
	assert.Equal(t, []string{"b", "c"}, f.c.Mounted())
}

func TestCarousel_GrowKeepsIndex(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b")})
	require.NoError(t, f.c.Set(1))

	f.c.SetSlides([]string{"a", "b", "c"})

	assert.Equal(t, store.State{Index: 1, Length: 3}, f.c.State())
	assert.Equal(t, []string{"a", "b", "c"}, ids(f.c.Frame().Window))
}

func TestCarousel_ReverseMapping(t *testing.T) {
	tests := []struct {
		name      string
		animation string
		wantIndex int
		wantTo    float64
	}{
		{name: "slide swaps commands", animation: "slide", wantIndex: 4, wantTo: -200},
		{name: "fade keeps commands", animation: "fade", wantIndex: 1, wantTo: 0},
		{name: "3d keeps commands", animation: "3d", wantIndex: 1, wantTo: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, CarouselConfig{
				Slides:    slideConfigs("a", "b", "c", "d", "e"),
				Infinite:  true,
				Animation: tt.animation,
				Direction: "HORIZONTAL_REVERSE",
			})

			f.c.Next()

			assert.Equal(t, tt.wantIndex, f.c.State().Index)
			assert.InDelta(t, tt.wantTo, f.driver.last(t).To, 1e-9)
		})
	}
}

func TestCarousel_ReversePrevMapping(t *testing.T) {
	tests := []struct {
		name      string
		animation string
		wantIndex int
	}{
		{name: "slide swaps commands", animation: "slide", wantIndex: 1},
		{name: "fade keeps commands", animation: "fade", wantIndex: 4},
		{name: "zoom keeps commands", animation: "zoom", wantIndex: 4},
		{name: "3d keeps commands", animation: "3d", wantIndex: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, CarouselConfig{
				Slides:    slideConfigs("a", "b", "c", "d", "e"),
				Infinite:  true,
				Animation: tt.animation,
				Direction: "HORIZONTAL_REVERSE",
			})

			f.c.Prev()

			assert.Equal(t, tt.wantIndex, f.c.State().Index)
		})
	}
}

func TestCarousel_ReversedWindow(t *testing.T) {
	f := newFixture(t, CarouselConfig{
		Slides:    slideConfigs("a", "b", "c"),
		Direction: "VERTICAL_REVERSE",
	})

	frame := f.c.Frame()
	assert.Equal(t, []string{"b", "a", "_"}, ids(frame.Window))
	assert.Equal(t, "a", frame.Window[window.Center(frame.Width)].ID)
}

func TestCarousel_Random(t *testing.T) {
	f := newFixture(t, CarouselConfig{
		Slides: slideConfigs("a", "b", "c", "d", "e", "f", "g", "h"),
		Random: true,
	}, WithRand(rand.New(rand.NewPCG(1, 2))))

	order := f.c.Order().IDs()
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, order)

	require.NoError(t, f.c.Set(3))
	assert.Equal(t, order[3], f.c.Frame().Selected.ID, "indexes address the shuffled order")

	f.c.SetRandom(true)
	assert.Equal(t, order, f.c.Order().IDs(), "unchanged flag keeps the order")

	f.c.SetRandom(false)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "h"}, f.c.Order().IDs())
}

func TestCarousel_EditingMode(t *testing.T) {
	f := newFixture(t, CarouselConfig{
		Slides:        slideConfigs("a", "b", "c"),
		Random:        true,
		Editing:       true,
		SelectedIndex: 2,
	})

	assert.Equal(t, []string{"a", "b", "c"}, f.c.Order().IDs(), "editing never shuffles")
	assert.Equal(t, []string{"c"}, f.c.Mounted())

	f.c.Next()
	require.NoError(t, f.c.Set(1))
	assert.Equal(t, 0, f.c.State().Index, "commands are ignored while editing")
	assert.Empty(t, f.driver.motions)

	frame := f.c.Frame()
	assert.Equal(t, ModeStatic, frame.Mode)
	assert.Equal(t, "c", frame.Selected.ID)

	f.c.SetSelected(0)
	assert.Equal(t, "a", f.c.Frame().Selected.ID)
	assert.Equal(t, []string{"a"}, f.c.Mounted())

	f.c.SetEditing(false)
	f.c.Next()
	assert.Equal(t, 1, f.c.State().Index)
}

func TestCarousel_Dispatch(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d")})

	require.NoError(t, f.c.Dispatch(command.Command{Kind: command.Next}))
	m := f.driver.last(t)
	require.NoError(t, f.c.Dispatch(command.Command{Kind: command.Complete, Seq: m.Seq}))
	assert.Equal(t, transition.Idle, f.c.Phase())

	require.NoError(t, f.c.Dispatch(command.Command{Kind: command.Set, Index: 3}))
	assert.Equal(t, 3, f.c.State().Index)

	require.NoError(t, f.c.Dispatch(command.Command{Kind: command.Prev}))
	assert.Equal(t, 2, f.c.State().Index)

	require.NoError(t, f.c.Dispatch(command.Command{Kind: command.Swipe, Signal: gesture.BackwardSwipe}))
	assert.Equal(t, 1, f.c.State().Index)

	err := f.c.Dispatch(command.Command{Kind: "SHUFFLE"})
	assert.True(t, errors.Is(err, command.ErrUnknownCommand))
}

func TestCarousel_Gestures(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})

	f.c.Gestures().Handle(gesture.ForwardSwipe)
	assert.Equal(t, 1, f.c.State().Index)

	f.c.Gestures().Handle(gesture.BackwardSwipe)
	assert.Equal(t, 0, f.c.State().Index)
}

func TestCarousel_SlidesToLoad(t *testing.T) {
	tests := []struct {
		name      string
		cc        CarouselConfig
		wantWidth int
		wantWarn  bool
	}{
		{name: "zero means one", cc: CarouselConfig{SlidesToLoad: 0}, wantWidth: 1},
		{name: "in range", cc: CarouselConfig{SlidesToLoad: 3}, wantWidth: 3},
		{name: "too large", cc: CarouselConfig{SlidesToLoad: 9}, wantWidth: 5, wantWarn: true},
		{name: "negative", cc: CarouselConfig{SlidesToLoad: -2}, wantWidth: 1, wantWarn: true},
		{name: "basic variant", cc: CarouselConfig{SlidesToLoad: 4, Variant: "basic"}, wantWidth: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := tt.cc
			cc.Name = "w"
			cc.Slides = slideConfigs("a", "b", "c")

			eng, err := New(Config{Carousels: []CarouselConfig{cc}})
			require.NoError(t, err)
			defer func() { _ = eng.Close() }()

			sub := eng.Events().Subscribe(16)
			defer eng.Events().Unsubscribe(sub)

			c, err := eng.NewCarousel("")
			require.NoError(t, err)

			frame := c.Frame()
			assert.Equal(t, tt.wantWidth, frame.Width)
			assert.Len(t, frame.Window, window.Size(tt.wantWidth))

			var warned bool
			for {
				select {
				case e := <-sub.C:
					if e.Kind == EventWarning {
						warned = true
						assert.Equal(t, "slides_to_load", e.Data.(Warning).Field)
					}
					continue
				default:
				}
				break
			}
			assert.Equal(t, tt.wantWarn, warned)
		})
	}
}

func TestCarousel_SetSlidesToLoad(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e"), Infinite: true})

	f.c.SetSlidesToLoad(2)

	assert.Equal(t, []string{"d", "e", "a", "b", "c"}, ids(f.c.Frame().Window))
	assert.Equal(t, []string{"e", "a", "b", "d", "c"}, f.c.Mounted())
}

func TestCarousel_SetSlidesToLoad_Clamp(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c"), SlidesToLoad: 2})
	sub := f.eng.Events().Subscribe(8)

	f.c.SetSlidesToLoad(0)
	assert.Equal(t, 1, f.c.Frame().Width)

	f.c.SetSlidesToLoad(9)
	assert.Equal(t, window.MaxWidth, f.c.Frame().Width)

	var warnings []Warning
	for len(sub.C) > 0 {
		e := <-sub.C
		if e.Kind == EventWarning {
			warnings = append(warnings, e.Data.(Warning))
		}
	}
	require.Len(t, warnings, 1)
	assert.Equal(t, "slides_to_load", warnings[0].Field)
}

func TestCarousel_FrameWidthMatchesWindow(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c", "d", "e"), Infinite: true})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 200 {
			f.c.SetSlidesToLoad(1 + i%window.MaxWidth)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		fr := f.c.Frame()
		require.Len(t, fr.Window, window.Size(fr.Width))
	}
}

func TestCarousel_SetDirection(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})

	require.NoError(t, f.c.SetDirection("HORIZONTAL_REVERSE"))
	assert.True(t, f.c.Frame().Policy.Reverse)

	assert.Error(t, f.c.SetDirection("SIDEWAYS"))
}

func TestCarousel_SetInfinite(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})

	f.c.SetInfinite(true)
	f.c.Prev()

	assert.Equal(t, 2, f.c.State().Index)
}

func TestCarousel_Events(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})
	sub := f.eng.Events().Subscribe(16)
	defer f.eng.Events().Unsubscribe(sub)

	f.c.Next()
	f.c.Complete(f.driver.last(t).Seq)

	var kinds []EventKind
	for range 3 {
		select {
		case e := <-sub.C:
			assert.Equal(t, f.c.ID(), e.Instance)
			kinds = append(kinds, e.Kind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
	assert.Equal(t, []EventKind{EventTransitionStart, EventState, EventSettled}, kinds)
}

func TestCarousel_Close(t *testing.T) {
	f := newFixture(t, CarouselConfig{Slides: slideConfigs("a", "b", "c")})
	sub := f.eng.Events().Subscribe(4)
	defer f.eng.Events().Unsubscribe(sub)
	f.renderer.reset()

	f.c.Close()
	f.c.Close()

	assert.Equal(t, []string{"-a", "-b"}, f.renderer.calls)

	f.c.Next()
	assert.Equal(t, 0, f.c.State().Index, "closed carousels ignore commands")

	e := <-sub.C
	assert.Equal(t, EventClosed, e.Kind)
}
