package automaton

import (
	"fmt"
	"strings"
)

// Empty returns a new automaton accepting no strings at all: an initial
// state with no transitions that does not accept.
func Empty() *Automaton {
	return &Automaton{Initial: NewState(), deterministic: true}
}

// EmptyString returns a new automaton accepting only the empty string.
func EmptyString() *Automaton {
	return newSingleton("")
}

// Char returns a new automaton accepting the single character c.
func Char(c rune) *Automaton {
	return CharRange(c, c)
}

// CharRange returns a new automaton accepting any single character in
// [min, max]. If min > max the result is the empty-language automaton.
func CharRange(min, max rune) *Automaton {
	if min > max {
		return Empty()
	}
	s1 := NewState()
	s2 := NewState()
	s2.Accept = true
	s1.AddRangeTransition(clampChar(min), clampChar(max), s2)
	return &Automaton{Initial: s1, deterministic: true}
}

// CharRangeSpan is one [Min, Max] member of a CharSet.
type CharRangeSpan struct {
	Min, Max rune
}

// CharSet returns a new automaton accepting any single character covered by
// one of the given spans (a regex character class such as [a-zA-Z0-9_]).
// Overlapping or adjacent spans are coalesced.
func CharSet(spans []CharRangeSpan) *Automaton {
	if len(spans) == 0 {
		return Empty()
	}
	s1 := NewState()
	s2 := NewState()
	s2.Accept = true
	for _, sp := range spans {
		if sp.Min > sp.Max {
			continue
		}
		s1.AddRangeTransition(clampChar(sp.Min), clampChar(sp.Max), s2)
	}
	a := &Automaton{Initial: s1}
	Reduce(a)
	a.deterministic = isStateDeterministic(s1)
	return a
}

func isStateDeterministic(s *State) bool {
	sorted := s.SortedTransitions(false)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Min <= sorted[i-1].Max {
			return false
		}
	}
	return true
}

// AnyChar returns a new automaton accepting any single character in the
// full BMP alphabet [MinChar, MaxChar].
func AnyChar() *Automaton {
	return CharRange(MinChar, MaxChar)
}

// AnyString returns a new automaton accepting every string, including the
// empty string.
func AnyString() *Automaton {
	s := NewState()
	s.Accept = true
	s.AddRangeTransition(MinChar, MaxChar, s)
	return &Automaton{Initial: s, deterministic: true}
}

// String returns a new automaton accepting exactly the literal string s,
// represented with the singleton fast path.
func String(s string) *Automaton {
	return newSingleton(s)
}

// Interval returns a new automaton accepting the decimal string
// representation of every integer in [min, max]. If digits > 0 every
// accepted string is zero-padded to exactly that many characters;
// otherwise the width matches the longest of min and max (with no leading
// zero required, matching ordinary integer formatting) but any additional
// zero-padding (for width greater than strictly necessary) is also
// accepted, mirroring the regex grammar's <min-max> form.
func Interval(min, max, digits int) (*Automaton, error) {
	if min > max {
		return nil, fmt.Errorf("automaton: interval bounds reversed: %d > %d", min, max)
	}
	if min < 0 || max < 0 {
		return nil, fmt.Errorf("automaton: interval bounds must be non-negative: [%d, %d]", min, max)
	}

	x := fmt.Sprint(min)
	y := fmt.Sprint(max)
	d := digits
	if d <= 0 {
		d = len(y)
	}

	x = zeroPad(x, d)
	y = zeroPad(y, d)

	var initials []*State
	start := intervalBetween(x, y, 0, &initials, digits <= 0)

	if digits > 0 {
		return &Automaton{Initial: start}, nil
	}

	// Allow any amount of extra leading zero padding beyond the natural
	// width: a dedicated entry state loops on '0' and epsilons into every
	// point of the digit automaton reached after consuming only zeros so
	// far (which includes start itself, since the whole prefix is zeros at
	// the root).
	entry := NewState()
	entry.AddRangeTransition('0', '0', entry)
	for _, p := range initials {
		entry.AddEpsilon(p)
	}
	return &Automaton{Initial: entry}, nil
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// intervalBetween builds the sub-automaton accepting every digit string of
// length len(x)-n (x and y are equal length by construction) whose
// numeric value lies in [x[n:], y[n:]], recursively peeling one digit at a
// time. zeros tracks whether every digit consumed so far was '0', which
// identifies states eligible for the "extra leading zero" epsilon loop.
func intervalBetween(x, y string, n int, initials *[]*State, zeros bool) *State {
	s := NewState()
	if len(x) == n {
		s.Accept = true
		return s
	}
	if zeros {
		*initials = append(*initials, s)
	}
	cx, cy := x[n], y[n]
	if cx == cy {
		next := intervalBetween(x, y, n+1, initials, zeros && cx == '0')
		s.AddRangeTransition(rune(cx), rune(cx), next)
		return s
	}
	lo := intervalAtLeast(x, n+1, initials, zeros && cx == '0')
	s.AddRangeTransition(rune(cx), rune(cx), lo)
	hi := intervalAtMost(y, n+1)
	s.AddRangeTransition(rune(cy), rune(cy), hi)
	if cx+1 < cy {
		mid := intervalAnyOfLength(x, n+1)
		s.AddRangeTransition(rune(cx+1), rune(cy-1), mid)
	}
	return s
}

func intervalAtLeast(x string, n int, initials *[]*State, zeros bool) *State {
	s := NewState()
	if len(x) == n {
		s.Accept = true
		return s
	}
	if zeros {
		*initials = append(*initials, s)
	}
	c := x[n]
	next := intervalAtLeast(x, n+1, initials, zeros && c == '0')
	s.AddRangeTransition(rune(c), rune(c), next)
	if c < '9' {
		rest := intervalAnyOfLength(x, n+1)
		s.AddRangeTransition(rune(c+1), '9', rest)
	}
	return s
}

func intervalAtMost(x string, n int) *State {
	s := NewState()
	if len(x) == n {
		s.Accept = true
		return s
	}
	c := x[n]
	next := intervalAtMost(x, n+1)
	s.AddRangeTransition(rune(c), rune(c), next)
	if c > '0' {
		rest := intervalAnyOfLength(x, n+1)
		s.AddRangeTransition('0', rune(c-1), rest)
	}
	return s
}

func intervalAnyOfLength(x string, n int) *State {
	s := NewState()
	if len(x) == n {
		s.Accept = true
		return s
	}
	next := intervalAnyOfLength(x, n+1)
	s.AddRangeTransition('0', '9', next)
	return s
}
