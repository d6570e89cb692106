package xeger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacewing-dev/automaton"
	"github.com/lacewing-dev/automaton/syntax"
)

func TestGenerateProducesStringsTheAutomatonAccepts(t *testing.T) {
	a, err := syntax.Compile(`[a-c]{2,4}`, 0, nil)
	require.NoError(t, err)

	g := New(a, rand.New(rand.NewSource(42)), 0)
	for i := 0; i < 50; i++ {
		s, err := g.Generate()
		require.NoError(t, err)
		assert.True(t, automaton.Run(a, s), s)
	}
}

func TestGenerateOnSingletonReturnsLiteral(t *testing.T) {
	a := automaton.String("literal")
	g := New(a, rand.New(rand.NewSource(1)), 0)
	s, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "literal", s)
}

func TestGenerateNReturnsRequestedCount(t *testing.T) {
	a, err := syntax.Compile(`x|y|z`, 0, nil)
	require.NoError(t, err)
	g := New(a, rand.New(rand.NewSource(7)), 0)

	out, err := g.GenerateN(10)
	require.NoError(t, err)
	require.Len(t, out, 10)
	for _, s := range out {
		assert.True(t, automaton.Run(a, s), s)
	}
}

func TestFromPatternStripsAnchors(t *testing.T) {
	g, err := FromPattern("^abc$", 0, nil, rand.New(rand.NewSource(3)), 0)
	require.NoError(t, err)
	s, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "abc", s)
}

func TestGenerateFailsWhenMaxLengthTooSmallForMinimumRepeat(t *testing.T) {
	a, err := syntax.Compile(`a{50}`, 0, nil)
	require.NoError(t, err)
	g := New(a, rand.New(rand.NewSource(5)), 5)
	_, err = g.Generate()
	assert.Error(t, err)
}

func TestGenerateRespectsEmptyOption(t *testing.T) {
	a, err := syntax.Compile(`a?`, 0, nil)
	require.NoError(t, err)
	g := New(a, rand.New(rand.NewSource(9)), 0)
	for i := 0; i < 20; i++ {
		s, err := g.Generate()
		require.NoError(t, err)
		assert.True(t, s == "" || s == "a", s)
	}
}
