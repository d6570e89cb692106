package automaton

// Minimize returns the minimal deterministic automaton accepting the same
// language as a. It determinizes and totalizes a, then repeatedly refines a
// partition of states by accept status and by the partition-block of each
// state's successor under every symbol, until the partition stops changing
// (Moore's formulation of Hopcroft-style partition refinement: two states
// stay together only as long as no distinguishing string has yet been
// found). The minimized automaton has one state per final block, and its
// dead (non-total) transitions are stripped back out at the end since only
// Complement wants the totalized trap state to survive.
func Minimize(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	if s, ok := a.SingletonString(); ok {
		return newSingleton(s)
	}
	a.ensureExpanded()

	if IsEmpty(a) {
		return Empty()
	}

	det := Determinize(a, cfg)
	total := Totalize(det)
	states := total.GetStates()
	n := len(states)
	if n == 0 {
		return Empty()
	}

	points := total.GetStartPoints()
	numSymbols := len(points)

	trans := make([][]int, n)
	for i, s := range states {
		trans[i] = make([]int, numSymbols)
		for si, p := range points {
			to := s.Step(p)
			trans[i][si] = stateNumber(to)
		}
	}

	block := make([]int, n)
	for i, s := range states {
		if s.Accept {
			block[i] = 1
		}
	}

	for {
		type sig struct {
			block int
			succ  string
		}
		keyOf := func(i int) sig {
			buf := make([]byte, 0, numSymbols*5)
			for _, t := range trans[i] {
				b := -1
				if t >= 0 {
					b = block[t]
				}
				buf = appendIntBytes(buf, b)
				buf = append(buf, ';')
			}
			return sig{block: block[i], succ: string(buf)}
		}

		groups := make(map[sig]int)
		newBlock := make([]int, n)
		next := 0
		for i := 0; i < n; i++ {
			k := keyOf(i)
			id, ok := groups[k]
			if !ok {
				id = next
				next++
				groups[k] = id
			}
			newBlock[i] = id
		}

		// Every new group's signature embeds its old block id, so a state
		// never merges across old blocks — the new partition always refines
		// the old one. That makes the block count alone a sufficient
		// convergence test: it can only stay equal when no block actually
		// split.
		oldCount := numDistinct(block)
		block = newBlock
		if next == oldCount {
			break
		}
	}

	numBlocks := numDistinct(block)
	blockStates := make([]*State, numBlocks)
	for i := range blockStates {
		blockStates[i] = NewState()
	}
	seenBlock := make([]bool, numBlocks)
	for i, s := range states {
		b := block[i]
		if !seenBlock[b] {
			blockStates[b].Accept = s.Accept
			seenBlock[b] = true
		}
	}
	for i := range states {
		b := block[i]
		for si, p := range points {
			toIdx := trans[i][si]
			if toIdx < 0 {
				continue
			}
			hi := MaxChar
			if si+1 < len(points) {
				hi = points[si+1] - 1
			}
			blockStates[b].AddRangeTransition(p, hi, blockStates[block[toIdx]])
		}
	}

	result := &Automaton{Initial: blockStates[block[0]], deterministic: true}
	Reduce(result)
	RemoveDeadTransitions(result)
	result.recomputeHash()
	return result
}

func numDistinct(xs []int) int {
	seen := make(map[int]bool, len(xs))
	for _, x := range xs {
		seen[x] = true
	}
	return len(seen)
}

func appendIntBytes(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	if v == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
