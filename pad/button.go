package pad

func (c *Component) buttonPointerEvent(pointer int, action Action, x, y int) bool {
	switch action {
	case ActionDown:
		if c.owned || !c.bounds.Contains(x, y) {
			return false
		}
		c.claim(pointer)
		c.setButtonState(StateDown)
		return true
	case ActionUp:
		if !c.ownedBy(pointer) {
			return false
		}
		c.release()
		c.setButtonState(StateUp)
		return true
	case ActionMove:
		if !c.ownedBy(pointer) {
			return false
		}
		if c.bounds.Contains(x, y) {
			return false
		}
		// dragged off the hit area: the press is cancelled
		c.release()
		c.setButtonState(StateUp)
		return true
	}
	return false
}

func (c *Component) setButtonState(state State) bool {
	if state != StateDown {
		state = StateUp
	}
	if state == c.state {
		return false
	}
	c.state = state
	if state == StateDown {
		c.emit(ActionDown, c.value)
	} else {
		c.emit(ActionUp, c.value)
	}
	c.dirty = true
	return true
}
