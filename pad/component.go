// Package pad implements the touch side of the virtual controller: the
// Button and DirectionalPad components, the directional classifier and the
// Surface that routes multi-touch events to them.
//
// All types in this package are meant to be driven from a single UI event
// goroutine and do no locking.
package pad

// DirCodes holds the key code emitted for each D-pad direction. A zero code
// leaves that direction unmapped: its state bit still changes but no event is
// emitted for it.
type DirCodes struct {
	Left   int `json:"left" yaml:"left" toml:"left"`
	Top    int `json:"top" yaml:"top" toml:"top"`
	Right  int `json:"right" yaml:"right" toml:"right"`
	Bottom int `json:"bottom" yaml:"bottom" toml:"bottom"`
}

// Code returns the key code mapped to a single direction bit.
func (d DirCodes) Code(dir State) int {
	switch dir {
	case DirLeft:
		return d.Left
	case DirTop:
		return d.Top
	case DirRight:
		return d.Right
	case DirBottom:
		return d.Bottom
	default:
		return 0
	}
}

// IsZero reports whether no direction is mapped.
func (d DirCodes) IsZero() bool {
	return d == DirCodes{}
}

// Component is one on-screen control. It is a tagged variant over Button and
// DirectionalPad; Kind selects which half of the behavior applies.
type Component struct {
	kind   Kind
	id     int
	value  int
	codes  DirCodes
	mode   DirectionMode
	bounds Rect

	state   State
	owner   int
	owned   bool
	dirty   bool
	editing bool

	sink EventSink
}

// NewButton creates a Button emitting code on press and release.
func NewButton(id int, bounds Rect, code int) *Component {
	return &Component{
		kind:   KindButton,
		id:     id,
		value:  code,
		bounds: bounds,
		dirty:  true,
	}
}

// NewDirectionalPad creates a DirectionalPad that classifies touches with mode.
func NewDirectionalPad(id int, bounds Rect, codes DirCodes, mode DirectionMode) *Component {
	return &Component{
		kind:   KindDirectionalPad,
		id:     id,
		codes:  codes,
		mode:   mode,
		bounds: bounds,
		dirty:  true,
	}
}

func (c *Component) Kind() Kind { return c.kind }
func (c *Component) ID() int { return c.id }
func (c *Component) Value() int { return c.value }
func (c *Component) Codes() DirCodes { return c.codes }
func (c *Component) Mode() DirectionMode { return c.mode }
func (c *Component) Bounds() Rect { return c.bounds }
func (c *Component) State() State { return c.state }
func (c *Component) Dirty() bool { return c.dirty }
func (c *Component) Editing() bool { return c.editing }
func (c *Component) setSink(sink EventSink) { c.sink = sink }
func (c *Component) ownedBy(pointer int) bool { return c.owned && c.owner == pointer }

// Owner returns the pointer currently holding the component, if any.
func (c *Component) Owner() (int, bool) {
	return c.owner, c.owned
}

// ClearDirty is called by the renderer once it has drawn the component.
func (c *Component) ClearDirty() { c.dirty = false }

func (c *Component) SetBounds(r Rect) {
	c.bounds = r
	c.dirty = true
}

func (c *Component) SetPosition(x, y int) {
	c.bounds.X = x
	c.bounds.Y = y
	c.dirty = true
}

func (c *Component) SetValue(code int) {
	c.value = code
	c.dirty = true
}

func (c *Component) SetEditing(editing bool) {
	c.editing = editing
	c.dirty = true
}

// OnPointerEvent feeds one pointer action to the component. It returns true
// when the call changed something observable, which also tells the Surface to
// stop offering the pointer to later components.
func (c *Component) OnPointerEvent(pointer int, action Action, x, y int) bool {
	switch c.kind {
	case KindButton:
		return c.buttonPointerEvent(pointer, action, x, y)
	case KindDirectionalPad:
		return c.dpadPointerEvent(pointer, action, x, y)
	default:
		return false
	}
}

// SetState moves the component to state, emitting one sink event per edge.
// It returns false when state equals the current state.
func (c *Component) SetState(state State) bool {
	switch c.kind {
	case KindButton:
		return c.setButtonState(state)
	case KindDirectionalPad:
		return c.setDirectionState(state)
	default:
		return false
	}
}

func (c *Component) claim(pointer int) {
	c.owner = pointer
	c.owned = true
}

func (c *Component) release() {
	c.owner = 0
	c.owned = false
}

func (c *Component) emit(action Action, code int) {
	if c.sink != nil {
		c.sink.OnButtonEvent(action, code)
	}
}
