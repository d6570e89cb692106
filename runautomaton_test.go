package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunAutomatonMatchesLiveRun(t *testing.T) {
	a := Union([]*Automaton{String("cat"), String("car"), String("cart")}, &Config{})
	ra := NewRunAutomaton(a, nil)

	cases := []struct {
		s    string
		want bool
	}{
		{"cat", true},
		{"car", true},
		{"cart", true},
		{"ca", false},
		{"caterpillar", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ra.Run(c.s), c.s)
		assert.Equal(t, c.want, Run(a, c.s), c.s)
	}
}

func TestRunAutomatonOnAnyString(t *testing.T) {
	ra := NewRunAutomaton(AnyString(), nil)
	assert.True(t, ra.Run(""))
	assert.True(t, ra.Run("anything at all"))
}
