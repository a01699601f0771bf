package remote

import (
	"sync"
	"time"

	"github.com/germanamz/slideshow/pkg/transition"
)

// Completer receives animation-complete signals.
type Completer interface {
	Complete(seq uint64)
}

// TimerDriver is a visual driver for hosts without an animation surface: it
// reports every motion complete once its duration has elapsed.
type TimerDriver struct {
	mu     sync.Mutex
	target Completer
	timer  *time.Timer
}

// NewTimerDriver creates a driver. Bind must be called before the first
// motion is started.
func NewTimerDriver() *TimerDriver {
	return &TimerDriver{}
}

// Bind sets the carousel that receives completions.
func (d *TimerDriver) Bind(target Completer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.target = target
}

// Animate schedules the completion of m, replacing any pending one.
func (d *TimerDriver) Animate(m transition.Motion) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	target := d.target
	if target == nil {
		return
	}
	d.timer = time.AfterFunc(m.Duration, func() { target.Complete(m.Seq) })
}

// Stop cancels a pending completion.
func (d *TimerDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
