package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionAcceptsEitherLanguage(t *testing.T) {
	a := Union([]*Automaton{String("cat"), String("dog")}, nil)
	assert.True(t, Run(a, "cat"))
	assert.True(t, Run(a, "dog"))
	assert.False(t, Run(a, "cow"))
}

func TestUnionOfNoOperandsIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(Union(nil, nil)))
}

func TestConcatenateFusesAdjacentLiterals(t *testing.T) {
	a := Concatenate([]*Automaton{String("foo"), String("bar")}, nil)
	assert.True(t, Run(a, "foobar"))
	assert.False(t, Run(a, "foo"))
}

func TestConcatenateWithEmptyLanguageIsEmpty(t *testing.T) {
	a := Concatenate([]*Automaton{String("foo"), Empty()}, nil)
	assert.True(t, IsEmpty(a))
}

func TestIntersectionAcceptsCommonLanguage(t *testing.T) {
	abc := CharRange('a', 'c')
	bcd := CharRange('b', 'd')
	a := Intersection(abc, bcd, nil)
	assert.True(t, Run(a, "b"))
	assert.True(t, Run(a, "c"))
	assert.False(t, Run(a, "a"))
	assert.False(t, Run(a, "d"))
}

func TestComplementAcceptsEverythingElse(t *testing.T) {
	a := Complement(String("x"), nil)
	assert.False(t, Run(a, "x"))
	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "y"))
	assert.True(t, Run(a, "xx"))
}

func TestOptionalAcceptsEmptyStringToo(t *testing.T) {
	a := Optional(String("go"), nil)
	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "go"))
	assert.False(t, Run(a, "gog"))
}

func TestRepeatAcceptsAnyNumberOfCopiesIncludingZero(t *testing.T) {
	a := Repeat(Char('a'), nil)
	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "a"))
	assert.True(t, Run(a, "aaaaa"))
	assert.False(t, Run(a, "aab"))
}

func TestRepeatMinRequiresAtLeastN(t *testing.T) {
	a := RepeatMin(Char('a'), 2, nil)
	assert.False(t, Run(a, ""))
	assert.False(t, Run(a, "a"))
	assert.True(t, Run(a, "aa"))
	assert.True(t, Run(a, "aaaa"))
}

func TestRepeatRangeBoundsBothEnds(t *testing.T) {
	a := RepeatRange(Char('a'), 2, 4, nil)
	assert.False(t, Run(a, "a"))
	assert.True(t, Run(a, "aa"))
	assert.True(t, Run(a, "aaa"))
	assert.True(t, Run(a, "aaaa"))
	assert.False(t, Run(a, "aaaaa"))
}

func TestRepeatRangeReversedBoundsIsEmpty(t *testing.T) {
	a := RepeatRange(Char('a'), 5, 2, nil)
	assert.True(t, IsEmpty(a))
}

func TestIsEmptyStringDistinguishesFromGeneralEmpty(t *testing.T) {
	assert.True(t, IsEmptyString(EmptyString()))
	assert.False(t, IsEmptyString(Empty()))
	assert.False(t, IsEmptyString(String("a")))
}

func TestAddEpsilonsComputesTransitiveClosure(t *testing.T) {
	a := NewState()
	b := NewState()
	c := NewState()
	c.Accept = true
	c.AddRangeTransition('x', 'x', c)

	AddEpsilons([]EpsilonPair{{First: a, Second: b}, {First: b, Second: c}})

	require.True(t, a.Accept, "a should transitively reach accepting c")
	found := false
	for _, tr := range a.Transitions() {
		if tr.Min == 'x' && tr.To == c {
			found = true
		}
	}
	assert.True(t, found, "a should have absorbed c's transitions via b")
}

func TestRunOnNonDeterministicAutomaton(t *testing.T) {
	// s0 has two transitions on 'a' to two different states, one accepting
	// and one not: genuinely non-deterministic, and not a singleton.
	s0 := NewState()
	s1 := NewState()
	s1.Accept = true
	s2 := NewState()
	s0.AddRangeTransition('a', 'a', s1)
	s0.AddRangeTransition('a', 'a', s2)
	na := &Automaton{Initial: s0}

	assert.True(t, Run(na, "a"))
	assert.False(t, Run(na, "b"))
}
