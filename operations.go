package automaton

import "github.com/bits-and-blooms/bitset"

// Union returns a new automaton accepting the union of the languages of the
// given automata. Operands that accept the empty language are dropped;
// operands are deep-cloned unless cfg allows mutation, since each is spliced
// into a shared result via epsilon.
func Union(automata []*Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)

	live := make([]*Automaton, 0, len(automata))
	for _, a := range automata {
		if IsEmpty(a) {
			continue
		}
		live = append(live, cloneIfNeeded(a, cfg))
	}
	if len(live) == 0 {
		return Empty()
	}
	if len(live) == 1 {
		return live[0]
	}

	initial := NewState()
	for _, a := range live {
		a.ensureExpanded()
		initial.AddEpsilon(a.Initial)
	}
	result := &Automaton{Initial: initial}
	RemoveDeadTransitions(result)
	return maybeMinimize(result, cfg)
}

// Concatenate returns a new automaton accepting the concatenation, in
// order, of the languages of the given automata. Adjacent singleton operands
// fuse into a single literal-string concatenation without ever building a
// state graph for them.
func Concatenate(automata []*Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)

	if len(automata) == 0 {
		return EmptyString()
	}

	// Fuse adjacent singletons (short-circuit for the common literal +
	// literal case, and the only case where the result stays a singleton).
	fused := make([]*Automaton, 0, len(automata))
	for _, a := range automata {
		if len(fused) > 0 {
			prev := fused[len(fused)-1]
			if prev.IsSingleton() && a.IsSingleton() {
				ps, _ := prev.SingletonString()
				as, _ := a.SingletonString()
				fused[len(fused)-1] = newSingleton(ps + as)
				continue
			}
		}
		fused = append(fused, a)
	}
	if len(fused) == 1 {
		return cloneIfNeeded(fused[0], cfg)
	}

	for _, a := range fused {
		if IsEmpty(a) {
			return Empty()
		}
	}

	clones := make([]*Automaton, len(fused))
	for i, a := range fused {
		clones[i] = cloneIfNeeded(a, cfg)
		clones[i].ensureExpanded()
	}

	for i := 0; i < len(clones)-1; i++ {
		next := clones[i+1]
		for _, s := range clones[i].GetStates() {
			if s.Accept {
				s.Accept = false
				s.AddEpsilon(next.Initial)
			}
		}
	}

	result := &Automaton{Initial: clones[0].Initial}
	RemoveDeadTransitions(result)
	return maybeMinimize(result, cfg)
}

// Intersection returns a new automaton accepting strings in the language of
// both a and b, built via product construction over their reachable states.
func Intersection(a, b *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	a.ensureExpanded()
	b.ensureExpanded()

	if IsEmpty(a) || IsEmpty(b) {
		return Empty()
	}

	type pairKey struct{ x, y *State }
	product := make(map[pairKey]*State)
	var worklist []pairKey

	get := func(x, y *State) (*State, bool) {
		k := pairKey{x, y}
		s, ok := product[k]
		return s, ok
	}

	initialKey := pairKey{a.Initial, b.Initial}
	initialState := NewState()
	product[initialKey] = initialState
	worklist = append(worklist, initialKey)

	for len(worklist) > 0 {
		k := worklist[0]
		worklist = worklist[1:]
		p := product[k]
		p.Accept = k.x.Accept && k.y.Accept

		t1 := k.x.SortedTransitions(false)
		t2 := k.y.SortedTransitions(false)

		n1 := 0
		b2 := 0
		for n1 < len(t1) {
			for b2 < len(t2) && t2[b2].Max < t1[n1].Min {
				b2++
			}
			n2 := b2
			for n2 < len(t2) && t1[n1].Max >= t2[n2].Min {
				lo := t1[n1].Min
				if t2[n2].Min > lo {
					lo = t2[n2].Min
				}
				hi := t1[n1].Max
				if t2[n2].Max < hi {
					hi = t2[n2].Max
				}

				dk := pairKey{t1[n1].To, t2[n2].To}
				dest, ok := get(dk.x, dk.y)
				if !ok {
					dest = NewState()
					product[dk] = dest
					worklist = append(worklist, dk)
				}
				p.AddRangeTransition(lo, hi, dest)
				n2++
			}
			n1++
		}
	}

	result := &Automaton{Initial: initialState}
	RemoveDeadTransitions(result)
	return maybeMinimize(result, cfg)
}

// Complement returns a new, deterministic automaton accepting exactly the
// strings a does not accept. It determinizes, totalizes, flips every
// state's accept bit, then drops the now-dead states.
func Complement(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	det := Determinize(a, cfg)
	total := Totalize(det)
	for _, s := range total.GetStates() {
		s.Accept = !s.Accept
	}
	RemoveDeadTransitions(total)
	total.deterministic = true
	return maybeMinimize(total, cfg)
}

// Optional returns a new automaton accepting the language of a plus the
// empty string.
func Optional(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	clone := cloneIfNeeded(a, cfg)
	clone.ensureExpanded()

	initial := NewState()
	initial.Accept = true
	initial.AddEpsilon(clone.Initial)

	result := &Automaton{Initial: initial}
	return maybeMinimize(result, cfg)
}

// Repeat returns a new automaton accepting the Kleene star of a's language:
// zero or more concatenated repetitions.
func Repeat(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	clone := cloneIfNeeded(a, cfg)
	clone.ensureExpanded()

	initial := NewState()
	initial.Accept = true
	initial.AddEpsilon(clone.Initial)

	for _, s := range clone.GetStates() {
		if s.Accept && s != initial {
			s.AddEpsilon(initial)
		}
	}

	result := &Automaton{Initial: initial}
	RemoveDeadTransitions(result)
	return maybeMinimize(result, cfg)
}

// RepeatMin returns a new automaton accepting n or more concatenated
// repetitions of a's language.
func RepeatMin(a *Automaton, n int, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	if n == 0 {
		return Repeat(a, cfg)
	}
	copies := make([]*Automaton, n)
	for i := range copies {
		copies[i] = a
	}
	star := Repeat(a, cfg)
	copies = append(copies, star)
	return Concatenate(copies, cfg)
}

// RepeatRange returns a new automaton accepting between min and max
// (inclusive) concatenated repetitions of a's language. If min > max the
// result is the empty-language automaton.
func RepeatRange(a *Automaton, min, max int, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	if min > max {
		return Empty()
	}

	var base *Automaton
	switch {
	case min == 0:
		base = EmptyString()
	case min == 1:
		base = cloneIfNeeded(a, cfg)
	default:
		copies := make([]*Automaton, min)
		for i := range copies {
			copies[i] = a
		}
		base = Concatenate(copies, cfg)
	}
	base.ensureExpanded()

	prevAccept := acceptStateSet(base)
	for i := min; i < max; i++ {
		clone := a.Clone()
		clone.ensureExpanded()
		for s := range prevAccept {
			s.AddEpsilon(clone.Initial)
		}
		prevAccept = acceptStateSet(clone)
	}

	result := &Automaton{Initial: base.Initial}
	RemoveDeadTransitions(result)
	return maybeMinimize(result, cfg)
}

func acceptStateSet(a *Automaton) map[*State]bool {
	out := make(map[*State]bool)
	for _, s := range a.GetStates() {
		if s.Accept {
			out[s] = true
		}
	}
	return out
}

// IsEmpty reports whether a accepts no strings at all.
func IsEmpty(a *Automaton) bool {
	if a.IsSingleton() {
		return false
	}
	if a.Initial == nil {
		return true
	}
	if a.Initial.Accept {
		return false
	}
	if len(a.Initial.transitions) == 0 {
		return true
	}

	seen := map[*State]bool{a.Initial: true}
	queue := []*State{a.Initial}
	for i := 0; i < len(queue); i++ {
		s := queue[i]
		if s.Accept {
			return false
		}
		for _, t := range s.transitions {
			if !seen[t.To] {
				seen[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}
	return true
}

// IsEmptyString reports whether a's initial state accepts and has no
// outgoing transitions (or a is the singleton ""), i.e. a accepts exactly
// the empty string. It returns false for the empty language.
func IsEmptyString(a *Automaton) bool {
	if s, ok := a.SingletonString(); ok {
		return len(s) == 0
	}
	return a.Initial != nil && a.Initial.Accept && len(a.Initial.transitions) == 0
}

// Run reports whether a accepts s. Singleton automata compare strings
// directly; deterministic automata step through linearly; anything else
// tracks the full frontier of reachable non-deterministic states.
func Run(a *Automaton, s string) bool {
	if accepted, ok := a.SingletonString(); ok {
		return accepted == s
	}
	if a.Initial == nil {
		return false
	}
	if a.IsDeterministic() {
		cur := a.Initial
		for _, c := range s {
			cur = cur.Step(clampChar(c))
			if cur == nil {
				return false
			}
		}
		return cur.Accept
	}

	states := a.GetStates()
	current := bitset.New(uint(len(states)))
	next := bitset.New(uint(len(states)))
	current.Set(uint(a.Initial.Number))

	for _, c := range s {
		next.ClearAll()
		for i, ok := current.NextSet(0); ok; i, ok = current.NextSet(i + 1) {
			for _, to := range states[i].StepAll(clampChar(c), nil) {
				next.Set(uint(to.Number))
			}
		}
		current, next = next, current
		if current.Count() == 0 {
			return false
		}
	}
	for i, ok := current.NextSet(0); ok; i, ok = current.NextSet(i + 1) {
		if states[i].Accept {
			return true
		}
	}
	return false
}

// EpsilonPair names an epsilon transition from First to Second to be
// eliminated by AddEpsilons.
type EpsilonPair struct {
	First, Second *State
}

// AddEpsilons computes the transitive closure of the supplied epsilon-pair
// relation with a worklist over forward and backward adjacency, then for
// every pair in the closure splices Second's transitions and accept bit
// into First — exactly what State.AddEpsilon does for a single pair, batched
// and closed over transitivity. Pairs naming states absent from the
// adjacency maps are treated as contributing no closure, not as an error.
func AddEpsilons(pairs []EpsilonPair) {
	forward := make(map[*State][]*State)
	backward := make(map[*State][]*State)
	closure := make(map[*State]map[*State]bool)

	var worklist []EpsilonPair
	for _, p := range pairs {
		if closure[p.First] == nil {
			closure[p.First] = make(map[*State]bool)
		}
		if closure[p.First][p.Second] {
			continue
		}
		closure[p.First][p.Second] = true
		forward[p.First] = append(forward[p.First], p.Second)
		backward[p.Second] = append(backward[p.Second], p.First)
		worklist = append(worklist, p)
	}

	for len(worklist) > 0 {
		p := worklist[0]
		worklist = worklist[1:]

		// p.First -> p.Second, and anything already known to reach
		// p.First epsilon-reaches p.Second too.
		for _, pre := range backward[p.First] {
			if closure[pre] == nil {
				closure[pre] = make(map[*State]bool)
			}
			if !closure[pre][p.Second] {
				closure[pre][p.Second] = true
				forward[pre] = append(forward[pre], p.Second)
				backward[p.Second] = append(backward[p.Second], pre)
				worklist = append(worklist, EpsilonPair{First: pre, Second: p.Second})
			}
		}
		// p.First epsilon-reaches everything p.Second already reaches.
		for _, post := range forward[p.Second] {
			if closure[p.First] == nil {
				closure[p.First] = make(map[*State]bool)
			}
			if !closure[p.First][post] {
				closure[p.First][post] = true
				forward[p.First] = append(forward[p.First], post)
				backward[post] = append(backward[post], p.First)
				worklist = append(worklist, EpsilonPair{First: p.First, Second: post})
			}
		}
	}

	for first, seconds := range closure {
		for second := range seconds {
			first.AddEpsilon(second)
		}
	}
}
