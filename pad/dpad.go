package pad

func (c *Component) dpadPointerEvent(pointer int, action Action, x, y int) bool {
	switch action {
	case ActionDown:
		if c.owned || !c.bounds.Contains(x, y) {
			return false
		}
		c.claim(pointer)
		c.setDirectionState(c.classify(x, y))
		// the claim itself is observable even inside the dead-zone
		return true
	case ActionUp:
		if !c.ownedBy(pointer) {
			return false
		}
		c.release()
		c.setDirectionState(StateUp)
		return true
	case ActionMove:
		if !c.ownedBy(pointer) {
			return false
		}
		return c.setDirectionState(c.classify(x, y))
	}
	return false
}

func (c *Component) classify(x, y int) State {
	cx, cy := c.bounds.Center()
	return Classify(float64(x-cx), float64(y-cy), DeadZone(c.bounds.Width), c.mode)
}

// setDirectionState treats each direction bit as an independent key.
func (c *Component) setDirectionState(state State) bool {
	state &= DirMask
	changed := false
	for _, d := range directions {
		was := c.state&d.bit != 0
		now := state&d.bit != 0
		if was == now {
			continue
		}
		changed = true
		code := c.codes.Code(d.bit)
		if code == 0 {
			continue
		}
		if now {
			c.emit(ActionDown, code)
		} else {
			c.emit(ActionUp, code)
		}
	}
	if !changed {
		return false
	}
	c.state = state
	c.dirty = true
	return true
}
