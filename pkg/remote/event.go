package remote

import (
	"github.com/germanamz/slideshow/pkg/command"
	"github.com/germanamz/slideshow/pkg/engine"
	"github.com/germanamz/slideshow/pkg/store"
	"github.com/germanamz/slideshow/pkg/transition"
	"github.com/germanamz/slideshow/pkg/window"
)

// EncodeEvent renders an engine event as one protocol message.
func EncodeEvent(e engine.Event) ([]byte, error) {
	return command.EncodeEvent(string(e.Kind), e.Instance, fields(e))
}

// encodeState renders the current position as a state event.
func encodeState(id string, st store.State) ([]byte, error) {
	return command.EncodeEvent(string(engine.EventState), id, stateFields(st))
}

func fields(e engine.Event) map[string]any {
	switch d := e.Data.(type) {
	case store.State:
		return stateFields(d)
	case transition.Motion:
		return map[string]any{
			"seq":         d.Seq,
			"movement":    d.Movement.String(),
			"index":       d.Index,
			"axis":        d.Axis.String(),
			"style":       d.Style.String(),
			"from":        d.From,
			"to":          d.To,
			"duration_ms": d.Duration.Milliseconds(),
		}
	case transition.Settle:
		return map[string]any{
			"index":    d.Index,
			"length":   d.Length,
			"reason":   d.Reason.String(),
			"movement": d.Movement.String(),
			"keys":     window.Keys(d.Window),
		}
	case engine.Warning:
		return map[string]any{"field": d.Field, "message": d.Message}
	default:
		return nil
	}
}

func stateFields(st store.State) map[string]any {
	return map[string]any{"index": st.Index, "length": st.Length}
}
