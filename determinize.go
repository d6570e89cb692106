package automaton

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lacewing-dev/automaton/internal/sparseset"
)

// Determinize returns a new, deterministic automaton accepting the same
// language as a, built by subset construction over the start points
// returned by GetStartPoints. Since epsilon transitions are eliminated the
// moment they're added (State.AddEpsilon splices eagerly, never leaving a
// real epsilon edge behind), this is a plain subset construction with no
// epsilon-closure step, unlike the textbook NFA-with-epsilons version.
//
// If a is already deterministic, Determinize returns it (cloned per cfg)
// unchanged.
func Determinize(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	a.ensureExpanded()
	if a.IsDeterministic() {
		return cloneIfNeeded(a, cfg)
	}

	src := a.Clone()
	states := src.GetStates() // assigns state.Number = index
	if len(states) == 0 {
		return &Automaton{deterministic: true}
	}
	points := src.GetStartPoints()

	newStates := make(map[string]*State)
	var worklist [][]int

	getOrCreate := func(set []int) (*State, bool) {
		key := subsetKeyOf(set)
		if s, ok := newStates[key]; ok {
			return s, false
		}
		s := NewState()
		for _, idx := range set {
			if states[idx].Accept {
				s.Accept = true
				break
			}
		}
		newStates[key] = s
		worklist = append(worklist, set)
		return s, true
	}

	initialState, _ := getOrCreate([]int{0})

	reach := sparseset.New(len(states))
	for len(worklist) > 0 {
		set := worklist[0]
		worklist = worklist[1:]
		cur := newStates[subsetKeyOf(set)]

		for pi, p := range points {
			hi := MaxChar
			if pi+1 < len(points) {
				hi = points[pi+1] - 1
			}
			reach.Clear()
			for _, idx := range set {
				s := states[idx]
				for j := range s.transitions {
					t := &s.transitions[j]
					if p >= t.Min && p <= t.Max {
						reach.Insert(t.To.Number)
					}
				}
			}
			if reach.Len() == 0 {
				continue
			}
			dest := append([]int(nil), reach.Values()...)
			sort.Ints(dest)
			to, _ := getOrCreate(dest)
			cur.AddRangeTransition(p, hi, to)
		}
	}

	result := &Automaton{Initial: initialState, deterministic: true}
	RemoveDeadTransitions(result)
	return result
}

func subsetKeyOf(set []int) string {
	var b strings.Builder
	for i, v := range set {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
