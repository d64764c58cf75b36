package touchscript_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/internal/touchscript"
	"github.com/aidoo/vpad/pad"
)

const jsonScript = `{
  "steps": [
    {"action": "down", "pointers": [{"id": 0, "x": 150, "y": 100}]},
    {"delay_ms": 5, "action": "pointer_down", "index": 1,
     "pointers": [{"id": 0, "x": 150, "y": 100}, {"id": 1, "x": 110, "y": 110}]},
    {"action": "pointer_up", "index": 1,
     "pointers": [{"id": 0, "x": 150, "y": 100}, {"id": 1, "x": 110, "y": 110}]},
    {"action": "up", "pointers": [{"id": 0, "x": 150, "y": 100}]}
  ]
}`

const yamlScript = `
steps:
  - action: down
    pointers:
      - {id: 0, x: 150, y: 100}
  - action: move
    delay_ms: 1
    pointers:
      - {id: 0, x: 100, y: 40}
  - action: cancel
`

const tomlScript = `
[[steps]]
action = "down"
  [[steps.pointers]]
  id = 0
  x = 150.0
  y = 100.0

[[steps]]
action = "up"
  [[steps.pointers]]
  id = 0
  x = 150.0
  y = 100.0
`

func TestDecode(t *testing.T) {
	type testCase struct {
		name    string
		data    string
		format  string
		actions []pad.MotionAction
	}
	testCases := []testCase{
		{
			name:    "JSON",
			data:    jsonScript,
			format:  "json",
			actions: []pad.MotionAction{pad.MotionDown, pad.MotionPointerDown, pad.MotionPointerUp, pad.MotionUp},
		},
		{
			name:    "YAML",
			data:    yamlScript,
			format:  "yaml",
			actions: []pad.MotionAction{pad.MotionDown, pad.MotionMove, pad.MotionCancel},
		},
		{
			name:    "TOML",
			data:    tomlScript,
			format:  "toml",
			actions: []pad.MotionAction{pad.MotionDown, pad.MotionUp},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := touchscript.Decode([]byte(tc.data), tc.format)
			require.NoError(t, err)
			events, err := s.Events()
			require.NoError(t, err)
			require.Len(t, events, len(tc.actions))
			for i, a := range tc.actions {
				assert.Equal(t, a, events[i].Action, "step %d", i)
			}
			assert.Equal(t, float32(150), events[0].Pointers[0].X)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	type testCase struct {
		name string
		data string
	}
	testCases := []testCase{
		{name: "Unknown action", data: `{"steps":[{"action":"tap","pointers":[{"id":0}]}]}`},
		{name: "Index out of range", data: `{"steps":[{"action":"pointer_down","index":2,"pointers":[{"id":0}]}]}`},
		{name: "Down without pointers", data: `{"steps":[{"action":"down"}]}`},
		{name: "Negative delay", data: `{"steps":[{"action":"cancel","delay_ms":-1}]}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := touchscript.Decode([]byte(tc.data), "json")
			assert.ErrorIs(t, err, touchscript.ErrInvalidScript)
		})
	}

	_, err := touchscript.Decode([]byte(`{"steps":[],"extra":1}`), "json")
	assert.Error(t, err)
	_, err = touchscript.Decode([]byte(`x`), "ini")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlScript), 0o644))

	s, err := touchscript.Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 3)
	assert.Equal(t, time.Millisecond, s.Duration())

	_, err = touchscript.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

type recordingSink struct {
	edges []string
}

func (r *recordingSink) OnButtonEvent(action pad.Action, code int) {
	name := "up"
	if action == pad.ActionDown {
		name = "down"
	}
	r.edges = append(r.edges, name+":"+pad.KeyCodeName(code))
}

func (r *recordingSink) OnAxisEvent(int, float32, float32) {}

func TestPlay(t *testing.T) {
	sink := &recordingSink{}
	surface, err := pad.Layout{Components: []pad.Descriptor{
		{ID: 1, Kind: "dpad", Bounds: pad.Rect{X: 50, Y: 50, Width: 100, Height: 100}},
		{ID: 2, Kind: "button", Name: "a", Bounds: pad.Rect{X: 200, Y: 50, Width: 40, Height: 40}},
	}}.Build(pad.DefaultKeyMap(), sink)
	require.NoError(t, err)

	s, err := touchscript.Decode([]byte(jsonScript), "json")
	require.NoError(t, err)

	var redraws []bool
	err = s.Play(context.Background(), surface, func(step int, ev pad.MotionEvent, redraw bool) {
		redraws = append(redraws, redraw)
	})
	require.NoError(t, err)

	// Pointer 1 lands on the already owned d-pad and is ignored.
	assert.Equal(t, []bool{true, false, false, true}, redraws)
	assert.Equal(t, []string{"down:DPAD_RIGHT", "up:DPAD_RIGHT"}, sink.edges)
}

func TestPlayCanceled(t *testing.T) {
	s := &touchscript.Script{Steps: []touchscript.Step{
		{Action: "cancel"},
		{Action: "cancel", DelayMS: 10_000},
	}}
	surface := pad.NewSurface(nil)
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	done := make(chan error, 1)
	go func() {
		done <- s.Play(ctx, surface, func(int, pad.MotionEvent, bool) { steps++ })
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, steps)
	case <-time.After(2 * time.Second):
		t.Fatal("Play did not stop")
	}
}
