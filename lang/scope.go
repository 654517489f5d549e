package lang

// frame binds variable names to values for one scope level.
type frame map[string]float64

// top returns the active frame. The global frame is never popped, so the
// stack is never empty.
func (s *Session) top() frame { return s.frames[len(s.frames)-1] }

func (s *Session) push(f frame) { s.frames = append(s.frames, f) }

func (s *Session) pop() {
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// depth returns the number of active calls.
func (s *Session) depth() int { return len(s.frames) - 1 }
