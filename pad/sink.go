package pad

// EventSink receives the input edges produced by pad components.
//
// OnAxisEvent exists for analog components; Button and DirectionalPad only
// ever call OnButtonEvent.
type EventSink interface {
	OnButtonEvent(action Action, code int)
	OnAxisEvent(deviceID int, x, y float32)
}

// SinkFuncs adapts plain functions to EventSink. Nil fields are skipped.
type SinkFuncs struct {
	Button func(action Action, code int)
	Axis   func(deviceID int, x, y float32)
}

func (s SinkFuncs) OnButtonEvent(action Action, code int) {
	if s.Button != nil {
		s.Button(action, code)
	}
}

func (s SinkFuncs) OnAxisEvent(deviceID int, x, y float32) {
	if s.Axis != nil {
		s.Axis(deviceID, x, y)
	}
}

// MultiSink fans out every event to all sinks in order.
type MultiSink []EventSink

func (m MultiSink) OnButtonEvent(action Action, code int) {
	for _, s := range m {
		if s != nil {
			s.OnButtonEvent(action, code)
		}
	}
}

func (m MultiSink) OnAxisEvent(deviceID int, x, y float32) {
	for _, s := range m {
		if s != nil {
			s.OnAxisEvent(deviceID, x, y)
		}
	}
}
