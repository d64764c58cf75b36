package pad_test

import (
	"github.com/aidoo/vpad/pad"
)

type edge struct {
	Action pad.Action
	Code   int
}

type recorder struct {
	edges []edge
}

func (r *recorder) OnButtonEvent(action pad.Action, code int) {
	r.edges = append(r.edges, edge{action, code})
}

func (r *recorder) OnAxisEvent(int, float32, float32) {}

func (r *recorder) take() []edge {
	e := r.edges
	r.edges = nil
	return e
}

var testCodes = pad.DirCodes{Left: 21, Top: 19, Right: 22, Bottom: 20}
