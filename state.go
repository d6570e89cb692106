package automaton

import (
	"sort"
	"sync/atomic"
)

// nextStateID is the process-wide monotonic state identity counter described
// in the data model: identity is assigned once, never reused, and must stay
// unique even if automata are built concurrently on disjoint state sets.
var nextStateID int64

// State is a single node of an automaton's transition graph. States are
// heap-allocated and reached only through Automaton.Initial or another
// State's transitions; a State's identity is its pointer, not its structure
// (two States with identical outgoing transitions are still distinct).
//
// A State owns no other State: the graph may be cyclic, and state graphs are
// torn down by the garbage collector once nothing reaches them, not by any
// explicit ownership protocol.
type State struct {
	id     int64
	Accept bool
	// Number is scratch space assigned by traversals (getStates, determinize,
	// minimize) so a state can be used as an array index. It carries no
	// meaning between traversals.
	Number int

	transitions []Transition
}

// NewState creates a fresh, unreachable State with a unique identity.
func NewState() *State {
	return &State{id: atomic.AddInt64(&nextStateID, 1)}
}

// ID returns this state's stable creation-order identity. Two states are the
// same state iff their ID (equivalently, their pointer) is equal; nothing
// about a state's transitions or accept bit factors into identity.
func (s *State) ID() int64 { return s.id }

// Transitions returns the state's outgoing transitions in whatever order
// they were added. Callers that need a stable order should use
// SortedTransitions instead.
func (s *State) Transitions() []Transition {
	return s.transitions
}

// NumTransitions reports how many outgoing transitions this state has.
func (s *State) NumTransitions() int {
	return len(s.transitions)
}

// AddTransition appends a new outgoing transition. min must not exceed max;
// callers that want an automatic swap should use AddRangeTransition.
func (s *State) AddTransition(t Transition) {
	s.transitions = append(s.transitions, t)
}

// AddRangeTransition records a transition over [min, max] -> to, swapping
// the bounds if they arrive reversed so the Transition invariant (min <= max)
// always holds.
func (s *State) AddRangeTransition(min, max rune, to *State) {
	if min > max {
		min, max = max, min
	}
	s.transitions = append(s.transitions, Transition{Min: min, Max: max, To: to})
}

// Step performs a deterministic lookup: the unique transition whose interval
// contains c, or nil if none matches. Behaviour is only meaningful when the
// state belongs to a deterministic automaton (callers must not rely on which
// transition wins if several overlap).
func (s *State) Step(c rune) *State {
	for i := range s.transitions {
		t := &s.transitions[i]
		if c >= t.Min && c <= t.Max {
			return t.To
		}
	}
	return nil
}

// StepAll performs a non-deterministic lookup, appending every transition
// target whose interval contains c onto dest and returning the extended
// slice.
func (s *State) StepAll(c rune, dest []*State) []*State {
	for i := range s.transitions {
		t := &s.transitions[i]
		if c >= t.Min && c <= t.Max {
			dest = append(dest, t.To)
		}
	}
	return dest
}

// SortedTransitions returns a freshly sorted copy of the state's outgoing
// transitions. When toFirst is false the order is (min, -max, to.Number);
// when true it is (to.Number, min, -max) with nil destinations sorting
// first. The copy is safe for the caller to keep or mutate.
func (s *State) SortedTransitions(toFirst bool) []Transition {
	out := make([]Transition, len(s.transitions))
	copy(out, s.transitions)
	sort.Sort(&transitionSorter{transitions: out, toFirst: toFirst})
	return out
}

type transitionSorter struct {
	transitions []Transition
	toFirst     bool
}

func (r *transitionSorter) Len() int { return len(r.transitions) }

func (r *transitionSorter) Swap(i, j int) {
	r.transitions[i], r.transitions[j] = r.transitions[j], r.transitions[i]
}

func (r *transitionSorter) Less(i, j int) bool {
	a, b := r.transitions[i], r.transitions[j]
	if r.toFirst {
		an, bn := stateNumber(a.To), stateNumber(b.To)
		if an != bn {
			return an < bn
		}
		if a.Min != b.Min {
			return a.Min < b.Min
		}
		return a.Max > b.Max
	}
	if a.Min != b.Min {
		return a.Min < b.Min
	}
	if a.Max != b.Max {
		return a.Max > b.Max
	}
	return stateNumber(a.To) < stateNumber(b.To)
}

func stateNumber(s *State) int {
	if s == nil {
		return -1
	}
	return s.Number
}

// AddEpsilon absorbs other's outgoing transitions and accept bit into s, as
// if an epsilon transition from s to other existed and had been eliminated.
// Epsilons are never materialized as real transitions; this is the one place
// they are "added", and it happens by copying, not by linking.
func (s *State) AddEpsilon(other *State) {
	s.transitions = append(s.transitions, other.transitions...)
	if other.Accept {
		s.Accept = true
	}
}

// Transition is a closed interval [Min, Max] of characters leading to To,
// treated as immutable once constructed (Min <= Max always holds; see
// AddRangeTransition). It is a back-reference: it does not own To, and
// multiple transitions from different states may point at the same To.
type Transition struct {
	Min, Max rune
	To       *State
}

// StatePair pairs two states with a payload state S, as a memoization key
// for product constructions and epsilon-closure work lists. Equality and
// hashing are defined purely by (First, Second). Intersection and
// AddEpsilons in this package do not use it: they key on a local pair type
// and on EpsilonPair respectively.
type StatePair struct {
	First, Second *State
	S             *State
}

// statePairKey is the comparable form of (First, Second) used as a Go map
// key; StatePair itself is not comparable-safe to use directly as a key
// because callers may carry different S payloads for logically equal pairs.
type statePairKey struct {
	first, second *State
}

func newStatePairKey(first, second *State) statePairKey {
	return statePairKey{first: first, second: second}
}
