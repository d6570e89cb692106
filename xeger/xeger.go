// Package xeger generates random strings accepted by an automaton — the
// inverse of matching: given a compiled pattern, produce a sample string it
// would match. The name and approach follow the generex/xeger family of
// libraries: walk the automaton from its initial state, at each step either
// stopping (if the current state accepts) or following a randomly chosen
// outgoing transition to a randomly chosen character within it.
package xeger

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lacewing-dev/automaton"
	"github.com/lacewing-dev/automaton/syntax"
)

// DefaultMaxLength bounds the length of generated strings when the caller
// does not supply one, guarding against unbounded walks through automata
// built from unbounded repetition (a*, a+, {3,}).
const DefaultMaxLength = 1000

// Generator produces random strings accepted by a fixed automaton.
type Generator struct {
	automaton *automaton.Automaton
	rng       *rand.Rand
	maxLength int
}

// New builds a Generator over a. rng may be nil, in which case a new
// source with the fixed seed 1 is created; maxLength <= 0 means
// DefaultMaxLength.
func New(a *automaton.Automaton, rng *rand.Rand, maxLength int) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Generator{automaton: a, rng: rng, maxLength: maxLength}
}

// FromPattern compiles pattern (stripping a leading '^' and trailing '$',
// which every xeger-family generator treats as redundant since matching is
// always against the whole string) and returns a Generator over the result.
func FromPattern(pattern string, flags int, provider syntax.Provider, rng *rand.Rand, maxLength int) (*Generator, error) {
	trimmed := strings.TrimPrefix(pattern, "^")
	trimmed = strings.TrimSuffix(trimmed, "$")
	a, err := syntax.Compile(trimmed, flags, provider)
	if err != nil {
		return nil, err
	}
	return New(a, rng, maxLength), nil
}

// Generate produces one random string accepted by the generator's
// automaton. It returns an error if maxLength is exhausted before reaching
// an accepting state (only possible for automata with no short accepted
// strings, such as a{1000,}).
func (g *Generator) Generate() (string, error) {
	if s, ok := g.automaton.SingletonString(); ok {
		return s, nil
	}
	g.automaton.ExpandSingleton()

	var b strings.Builder
	cur := g.automaton.Initial
	for i := 0; i < g.maxLength; i++ {
		transitions := cur.Transitions()
		numOptions := len(transitions)
		if cur.Accept {
			// The stop option is one extra choice alongside every outgoing
			// transition, not folded into len(transitions): counting only
			// the transitions here would starve states that both accept
			// and have onward transitions of ever stopping.
			numOptions++
		}
		if numOptions == 0 {
			if cur.Accept {
				return b.String(), nil
			}
			return "", fmt.Errorf("xeger: dead end reached with no accepting state")
		}

		choice := g.rng.Intn(numOptions)
		if cur.Accept && choice == numOptions-1 {
			return b.String(), nil
		}
		t := transitions[choice]
		c := t.Min
		if t.Max > t.Min {
			c = t.Min + rune(g.rng.Intn(int(t.Max-t.Min+1)))
		}
		b.WriteRune(c)
		cur = t.To
	}
	if cur.Accept {
		return b.String(), nil
	}
	return "", fmt.Errorf("xeger: exceeded max length %d without reaching an accepting state", g.maxLength)
}

// GenerateN produces n independently generated strings.
func (g *Generator) GenerateN(n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		s, err := g.Generate()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
