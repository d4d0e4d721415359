package palette

import "math"

// State is the process-wide palette selection plus the continuously advancing hue phase.
// Anchor and scheme switching are external commands; the simulation only reads it.
type State struct {
	Sets    []Anchors
	Index   int
	Scheme  Scheme
	HueBase float64 // [0,1)
}

// Active returns the selected anchor set.
func (s *State) Active() Anchors {
	if len(s.Sets) == 0 {
		return Anchors{}
	}
	return s.Sets[s.Index%len(s.Sets)]
}

// Cycle selects the next anchor set.
func (s *State) Cycle() {
	if len(s.Sets) == 0 {
		return
	}
	s.Index = (s.Index + 1) % len(s.Sets)
}

// ToggleScheme flips between cosine and sinebow.
func (s *State) ToggleScheme() {
	if s.Scheme == SchemeCosine {
		s.Scheme = SchemeSinebow
	} else {
		s.Scheme = SchemeCosine
	}
}

// Advance moves the hue phase by dt·(0.02 + 0.35·mid + 0.15·psy), wrapped to [0,1).
func (s *State) Advance(dt, mid, psy float64) {
	h := s.HueBase + dt*(0.02+0.35*mid+0.15*psy)
	s.HueBase = h - math.Floor(h)
}
