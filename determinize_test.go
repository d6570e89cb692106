package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterminizeResolvesSharedPrefix(t *testing.T) {
	// "cat" | "car": s0 has two 'c' transitions feeding into different
	// sub-chains, a classic non-deterministic shape.
	na := Union([]*Automaton{String("cat"), String("car")}, &Config{})

	det := Determinize(na, nil)
	assert.True(t, det.IsDeterministic())
	assert.True(t, Run(det, "cat"))
	assert.True(t, Run(det, "car"))
	assert.False(t, Run(det, "ca"))
	assert.False(t, Run(det, "cab"))

	for _, s := range det.GetStates() {
		sorted := s.SortedTransitions(false)
		for i := 1; i < len(sorted); i++ {
			assert.True(t, sorted[i].Min > sorted[i-1].Max, "overlapping transitions after determinize")
		}
	}
}

func TestDeterminizeOfAlreadyDeterministicIsUnchanged(t *testing.T) {
	a := CharRange('a', 'z')
	det := Determinize(a, nil)
	assert.True(t, Run(det, "m"))
	assert.False(t, Run(det, "M"))
}

func TestDeterminizeHandlesDeadBranch(t *testing.T) {
	s0 := NewState()
	s1 := NewState()
	s1.Accept = true
	s0.AddRangeTransition('a', 'a', s1)
	s0.AddRangeTransition('a', 'a', NewState()) // second, non-accepting branch on 'a'
	na := &Automaton{Initial: s0}

	det := Determinize(na, nil)
	assert.True(t, Run(det, "a"))
	assert.False(t, Run(det, "b"))
}
