package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	d := 200 * time.Millisecond

	assert.InDelta(t, 0.0, Progress(0, d), 1e-9)
	assert.InDelta(t, 0.5, Progress(100*time.Millisecond, d), 1e-9)
	assert.InDelta(t, 1.0, Progress(time.Second, d), 1e-9)
	assert.InDelta(t, 1.0, Progress(0, 0), 1e-9)
	assert.InDelta(t, 0.0, Progress(-time.Second, d), 1e-9)
}

func TestOffset(t *testing.T) {
	m := Motion{From: RestOffset, To: -200}

	assert.InDelta(t, -100.0, Offset(m, 0, nil), 1e-9)
	assert.InDelta(t, -150.0, Offset(m, 0.5, nil), 1e-9)
	assert.InDelta(t, -200.0, Offset(m, 1, nil), 1e-9)
	assert.InDelta(t, -200.0, Offset(m, 3, Linear), 1e-9)
	assert.InDelta(t, -200.0, Offset(m, 1, EaseOutCubic), 1e-9)
	assert.Less(t, Offset(m, 0.5, EaseOutCubic), -150.0)
}

func TestEasingEndpoints(t *testing.T) {
	for _, ease := range []Easing{Linear, EaseOutCubic, EaseInOutCubic} {
		assert.InDelta(t, 0.0, ease(0), 1e-9)
		assert.InDelta(t, 1.0, ease(1), 1e-9)
	}
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-9)
}

func TestStripOffset(t *testing.T) {
	assert.InDelta(t, -100.0, StripOffset(1, RestOffset), 1e-9)
	assert.InDelta(t, -300.0, StripOffset(3, RestOffset), 1e-9)
	assert.InDelta(t, -200.0, StripOffset(1, -200), 1e-9)
}
