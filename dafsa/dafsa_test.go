package dafsa

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lacewing-dev/automaton"
)

func TestBuildFromSortedAcceptsExactlyTheGivenWords(t *testing.T) {
	words := []string{"cat", "car", "cart", "dog"}
	sort.Strings(words)

	a, err := BuildFromSorted(words)
	require.NoError(t, err)

	for _, w := range words {
		assert.True(t, automaton.Run(a, w), w)
	}
	for _, w := range []string{"ca", "ca t", "do", "doge", ""} {
		assert.False(t, automaton.Run(a, w), w)
	}
}

func TestBuildSharesSuffixesAcrossWords(t *testing.T) {
	// "dogs" and "cats" share the "s" suffix; the DAFSA should merge their
	// final states rather than keeping two separate chains.
	words := []string{"cats", "dogs"}
	a, err := BuildFromSorted(words)
	require.NoError(t, err)
	assert.True(t, automaton.Run(a, "cats"))
	assert.True(t, automaton.Run(a, "dogs"))
	assert.False(t, automaton.Run(a, "cat"))
	assert.False(t, automaton.Run(a, "dog"))
	// Two separate chains would need 9 states; sharing the state before 's'
	// and the final state leaves 7.
	assert.Equal(t, 7, len(a.GetStates()))
}

func TestInsertRejectsOutOfOrderWords(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("bar"))
	require.NoError(t, b.Insert("foo"))
	err := b.Insert("baz")
	assert.Error(t, err)
}

func TestInsertAllowsDuplicateWords(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("bar"))
	require.NoError(t, b.Insert("foo"))
	require.NoError(t, b.Insert("foo"))
	a, err := b.Build()
	require.NoError(t, err)
	assert.True(t, automaton.Run(a, "bar"))
	assert.True(t, automaton.Run(a, "foo"))
	assert.False(t, automaton.Run(a, "fo"))
}

func TestBuildCannotBeCalledTwice(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("a"))
	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	assert.Error(t, err)
}

func TestInsertAfterBuildFails(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("a"))
	_, err := b.Build()
	require.NoError(t, err)
	err = b.Insert("b")
	assert.Error(t, err)
}

func TestBuildOfEmptyBuilderIsEmptyLanguage(t *testing.T) {
	b := NewBuilder()
	a, err := b.Build()
	require.NoError(t, err)
	assert.True(t, automaton.IsEmpty(a))
}
