package automaton

import "sort"

// RunAutomaton precomputes a full transition table for a determinized
// automaton so repeated matching never walks states or re-sorts
// transitions. The name and purpose follow geange-automaton's
// RunAutomaton/ByteRunAutomaton pair; that pair's actual implementation
// was never checked in (ByteRunAutomaton references a RunAutomaton type
// that does not exist anywhere in that repository), so this is a working
// realization of the concept rather than an adaptation of working source.
type RunAutomaton struct {
	points []rune
	// table[state*len(points)+i] is the destination state number for the
	// interval starting at points[i], or -1 if undefined.
	table  []int
	accept []bool
	numPts int
}

// NewRunAutomaton determinizes a (if needed) and builds its transition
// table. Build it once and reuse it for every subsequent Run call.
func NewRunAutomaton(a *Automaton, cfg *Config) *RunAutomaton {
	det := Determinize(a, cfg)
	states := det.GetStates()
	points := det.GetStartPoints()
	numPts := len(points)

	table := make([]int, len(states)*numPts)
	accept := make([]bool, len(states))
	for i, s := range states {
		accept[i] = s.Accept
		for pi, p := range points {
			to := s.Step(p)
			table[i*numPts+pi] = stateNumber(to)
		}
	}

	return &RunAutomaton{points: points, table: table, accept: accept, numPts: numPts}
}

// pointIndex returns the index of the interval that contains c, via binary
// search over the sorted start points.
func (r *RunAutomaton) pointIndex(c rune) int {
	i := sort.Search(len(r.points), func(i int) bool { return r.points[i] > c })
	return i - 1
}

// Step returns the destination state number reached from state on c, or -1
// if none (state is already dead or state is out of range).
func (r *RunAutomaton) Step(state int, c rune) int {
	if state < 0 || state >= len(r.accept) {
		return -1
	}
	pi := r.pointIndex(c)
	if pi < 0 {
		return -1
	}
	return r.table[state*r.numPts+pi]
}

// Run reports whether s is accepted, walking the precomputed table instead
// of live State objects.
func (r *RunAutomaton) Run(s string) bool {
	state := 0
	for _, c := range s {
		state = r.Step(state, c)
		if state < 0 {
			return false
		}
	}
	return r.accept[state]
}
