// Package command decodes the inbound interaction payloads of a carousel and
// encodes its outbound notifications. Payloads are small JSON objects:
//
//	{"type":"SET","args":{"index":3}}
//	{"event":"state","instance":"…","index":3,"length":5}
package command

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/germanamz/slideshow/pkg/gesture"
)

var (
	// ErrInvalidPayload is returned for input that is not a JSON object.
	ErrInvalidPayload = errors.New("command: invalid payload")
	// ErrUnknownCommand is returned for an unsupported type.
	ErrUnknownCommand = errors.New("command: unknown command")
	// ErrMissingArgument is returned when a required argument is absent or
	// has the wrong type.
	ErrMissingArgument = errors.New("command: missing argument")
)

// Kind identifies a command.
type Kind string

const (
	Next Kind = "NEXT"
	Prev Kind = "PREV"
	Set  Kind = "SET"
	// Swipe carries a gesture signal from an external recogniser.
	Swipe Kind = "SWIPE"
	// Complete is the animation-complete signal of a remote visual driver.
	Complete Kind = "COMPLETE"
)

// Command is one decoded interaction.
type Command struct {
	Kind   Kind
	Index  int            // SET
	Signal gesture.Signal // SWIPE
	Seq    uint64         // COMPLETE
}

// Parse decodes a command payload. The type is case-insensitive; arguments
// are read from "args" and fall back to the top level.
func Parse(data []byte) (Command, error) {
	if !gjson.ValidBytes(data) {
		return Command{}, ErrInvalidPayload
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Command{}, ErrInvalidPayload
	}

	kind := Kind(strings.ToUpper(strings.TrimSpace(root.Get("type").String())))

	switch kind {
	case Next, Prev:
		return Command{Kind: kind}, nil
	case Set:
		idx, err := intArg(root, "index")
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: Set, Index: int(idx)}, nil
	case Swipe:
		sig, err := gesture.ParseSignal(arg(root, "signal").String())
		if err != nil {
			return Command{}, fmt.Errorf("%w: signal: %w", ErrMissingArgument, err)
		}
		return Command{Kind: Swipe, Signal: sig}, nil
	case Complete:
		seq, err := intArg(root, "seq")
		if err != nil {
			return Command{}, err
		}
		if seq < 0 {
			return Command{}, fmt.Errorf("%w: seq must not be negative", ErrMissingArgument)
		}
		return Command{Kind: Complete, Seq: uint64(seq)}, nil
	default:
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, root.Get("type").String())
	}
}

// Encode returns the payload of c, the inverse of Parse.
func Encode(c Command) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "type", string(c.Kind))
	if err != nil {
		return nil, fmt.Errorf("command: encode: %w", err)
	}

	switch c.Kind {
	case Set:
		out, err = sjson.SetBytes(out, "args.index", c.Index)
	case Swipe:
		out, err = sjson.SetBytes(out, "args.signal", c.Signal.String())
	case Complete:
		out, err = sjson.SetBytes(out, "args.seq", c.Seq)
	}
	if err != nil {
		return nil, fmt.Errorf("command: encode: %w", err)
	}

	return out, nil
}

// EncodeEvent builds an outbound notification. Fields are written in key
// order after "event" and "instance" so the output is deterministic.
func EncodeEvent(event, instance string, fields map[string]any) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "event", event)
	if err != nil {
		return nil, fmt.Errorf("command: encode event: %w", err)
	}

	if instance != "" {
		if out, err = sjson.SetBytes(out, "instance", instance); err != nil {
			return nil, fmt.Errorf("command: encode event: %w", err)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(fields)) {
		if out, err = sjson.SetBytes(out, escapeKey(k), fields[k]); err != nil {
			return nil, fmt.Errorf("command: encode event field %q: %w", k, err)
		}
	}

	return out, nil
}

// EncodeError builds an error notification.
func EncodeError(instance string, err error) []byte {
	out, encErr := EncodeEvent("error", instance, map[string]any{"message": err.Error()})
	if encErr != nil {
		return []byte(`{"event":"error"}`)
	}
	return out
}

func arg(root gjson.Result, name string) gjson.Result {
	if v := root.Get("args." + name); v.Exists() {
		return v
	}
	return root.Get(name)
}

func intArg(root gjson.Result, name string) (int64, error) {
	v := arg(root, name)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: %s", ErrMissingArgument, name)
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %s", ErrMissingArgument, name, v.Raw)
	}
	return v.Int(), nil
}

// escapeKey escapes sjson path metacharacters so a field name is written as a
// single top-level key.
func escapeKey(k string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`)
	return r.Replace(k)
}
