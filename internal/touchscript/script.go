// Package touchscript loads recorded multi-touch sequences and plays them
// into a pad surface. It stands in for the platform touch source in
// headless runs and tests.
package touchscript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/aidoo/vpad/pad"
)

// ErrInvalidScript wraps every validation failure.
var ErrInvalidScript = errors.New("invalid touch script")

// Pointer is one contact of a step.
type Pointer struct {
	ID int     `json:"id" yaml:"id" toml:"id"`
	X  float64 `json:"x" yaml:"x" toml:"x"`
	Y  float64 `json:"y" yaml:"y" toml:"y"`
}

// Step is one motion event, played DelayMS after the previous one.
type Step struct {
	DelayMS  int       `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty" toml:"delay_ms,omitempty"`
	Action   string    `json:"action" yaml:"action" toml:"action"`
	Index    int       `json:"index,omitempty" yaml:"index,omitempty" toml:"index,omitempty"`
	Pointers []Pointer `json:"pointers,omitempty" yaml:"pointers,omitempty" toml:"pointers,omitempty"`
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `json:"steps" yaml:"steps" toml:"steps"`
}

// Dispatcher receives motion events; *pad.Surface implements it.
type Dispatcher interface {
	Dispatch(ev pad.MotionEvent) bool
}

// Load reads a script, choosing the decoder by file extension.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Decode(data, pad.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("decode script %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a script in json, yaml or toml and validates it.
func Decode(data []byte, format string) (*Script, error) {
	var s Script
	var err error
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &s)
	case "toml":
		err = toml.Unmarshal(data, &s)
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.Events(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Events converts the steps to motion events.
func (s *Script) Events() ([]pad.MotionEvent, error) {
	events := make([]pad.MotionEvent, 0, len(s.Steps))
	for i, st := range s.Steps {
		ev, err := st.Event()
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrInvalidScript, i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Event converts one step.
func (st Step) Event() (pad.MotionEvent, error) {
	action, err := pad.ParseMotionAction(st.Action)
	if err != nil {
		return pad.MotionEvent{}, err
	}
	if st.DelayMS < 0 {
		return pad.MotionEvent{}, fmt.Errorf("negative delay %d", st.DelayMS)
	}
	if action != pad.MotionCancel && action != pad.MotionMove {
		if st.Index < 0 || st.Index >= len(st.Pointers) {
			return pad.MotionEvent{}, fmt.Errorf("%s: pointer index %d out of range", action, st.Index)
		}
	}
	ptrs := make([]pad.Pointer, len(st.Pointers))
	for i, p := range st.Pointers {
		ptrs[i] = pad.Pointer{ID: p.ID, X: float32(p.X), Y: float32(p.Y)}
	}
	return pad.MotionEvent{Action: action, Index: st.Index, Pointers: ptrs}, nil
}

// Duration is the sum of all step delays.
func (s *Script) Duration() time.Duration {
	var total int
	for _, st := range s.Steps {
		total += st.DelayMS
	}
	return time.Duration(total) * time.Millisecond
}

// Play dispatches every step into d, honoring the delays. observe, when not
// nil, is called after each step with the dispatch result. Play stops early
// when ctx is done.
func (s *Script) Play(ctx context.Context, d Dispatcher, observe func(step int, ev pad.MotionEvent, redraw bool)) error {
	events, err := s.Events()
	if err != nil {
		return err
	}
	for i, ev := range events {
		if delay := time.Duration(s.Steps[i].DelayMS) * time.Millisecond; delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		redraw := d.Dispatch(ev)
		if observe != nil {
			observe(i, ev, redraw)
		}
	}
	return nil
}
