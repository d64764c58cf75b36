package pad

import (
	"fmt"
	"strings"
)

// MotionAction is the platform-level action of a multi-touch event.
type MotionAction uint8

const (
	MotionDown MotionAction = iota
	MotionUp
	MotionMove
	MotionCancel
	MotionPointerDown
	MotionPointerUp
)

var motionActionNames = map[MotionAction]string{
	MotionDown:        "down",
	MotionUp:          "up",
	MotionMove:        "move",
	MotionCancel:      "cancel",
	MotionPointerDown: "pointer_down",
	MotionPointerUp:   "pointer_up",
}

func (a MotionAction) String() string {
	if n, ok := motionActionNames[a]; ok {
		return n
	}
	return "unknown"
}

// ParseMotionAction parses the names produced by MotionAction.String.
func ParseMotionAction(s string) (MotionAction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, n := range motionActionNames {
		if n == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown motion action %q", s)
}

// Pointer is one active touch contact inside a MotionEvent.
type Pointer struct {
	ID int
	X  float32
	Y  float32
}

// MotionEvent mirrors a platform touch event. Move events carry the current
// position of every active pointer; down/up events name the pointer that
// changed through Index.
type MotionEvent struct {
	Action   MotionAction
	Index    int
	Pointers []Pointer
}

// Surface owns a fixed, ordered set of components and routes touch events to
// them. Earlier components win when bounds overlap.
type Surface struct {
	components []*Component
	sink       EventSink
	editing    bool
}

// NewSurface installs sink on every component. The component set is fixed
// for the lifetime of the surface.
func NewSurface(sink EventSink, components ...*Component) *Surface {
	s := &Surface{
		components: components,
		sink:       sink,
	}
	for _, c := range components {
		c.setSink(sink)
	}
	return s
}

// Components returns the components in declaration order.
func (s *Surface) Components() []*Component {
	return s.components
}

// Component looks up a component by id.
func (s *Surface) Component(id int) (*Component, bool) {
	for _, c := range s.components {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// SetEditing toggles layout editing. Touches are not routed while editing.
func (s *Surface) SetEditing(editing bool) {
	if editing {
		s.Cancel()
	}
	s.editing = editing
	for _, c := range s.components {
		c.SetEditing(editing)
	}
}

func (s *Surface) Editing() bool { return s.editing }

// Dispatch routes ev and reports whether the surface needs a redraw.
func (s *Surface) Dispatch(ev MotionEvent) bool {
	if s.editing {
		return false
	}
	switch ev.Action {
	case MotionMove:
		return s.dispatchMove(ev.Pointers)
	case MotionCancel:
		return s.Cancel()
	}
	if ev.Index < 0 || ev.Index >= len(ev.Pointers) {
		return false
	}
	p := ev.Pointers[ev.Index]
	action := ActionUp
	if ev.Action == MotionDown || ev.Action == MotionPointerDown {
		action = ActionDown
	}
	return s.DispatchPointer(p.ID, action, int(p.X), int(p.Y))
}

// DispatchPointer offers a single down/up to the components in order and
// stops at the first one that reacts.
func (s *Surface) DispatchPointer(pointer int, action Action, x, y int) bool {
	for _, c := range s.components {
		if c.OnPointerEvent(pointer, action, x, y) {
			return true
		}
	}
	return false
}

// dispatchMove only updates components that already own a pointer of the
// batch; a move never claims a new component.
func (s *Surface) dispatchMove(pointers []Pointer) bool {
	redraw := false
	for _, c := range s.components {
		owner, ok := c.Owner()
		if !ok {
			continue
		}
		p, found := findPointer(pointers, owner)
		if !found {
			continue
		}
		if c.OnPointerEvent(owner, ActionMove, int(p.X), int(p.Y)) {
			redraw = true
		}
	}
	return redraw
}

// Cancel releases every owned component, emitting the matching up edges.
func (s *Surface) Cancel() bool {
	redraw := false
	for _, c := range s.components {
		owner, ok := c.Owner()
		if !ok {
			continue
		}
		if c.OnPointerEvent(owner, ActionUp, 0, 0) {
			redraw = true
		}
	}
	return redraw
}

// DirtyComponents returns the components whose visuals are stale.
func (s *Surface) DirtyComponents() []*Component {
	var out []*Component
	for _, c := range s.components {
		if c.dirty {
			out = append(out, c)
		}
	}
	return out
}

// ClearDirty marks every component as drawn.
func (s *Surface) ClearDirty() {
	for _, c := range s.components {
		c.ClearDirty()
	}
}

func findPointer(pointers []Pointer, id int) (Pointer, bool) {
	for _, p := range pointers {
		if p.ID == id {
			return p, true
		}
	}
	return Pointer{}, false
}

// Sink returns the sink installed on the surface.
func (s *Surface) Sink() EventSink { return s.sink }
