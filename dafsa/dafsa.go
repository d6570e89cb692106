// Package dafsa builds a minimal deterministic acyclic finite-state
// automaton (a "DAWG") from a sorted sequence of strings, using the
// incremental construction described by Daciuk et al.: each inserted word
// only needs the suffix trie below its last registered common prefix with
// the previous word minimized before moving on, so the whole automaton
// never exists in non-minimal form except along the single path currently
// being extended.
//
// This algorithm has no counterpart in the example automaton library this
// module is otherwise built from (geange-automaton never builds acyclic
// string-set automata), so it is original code grounded directly in the
// published construction rather than adapted from a teacher file; it
// reuses this module's own State/Transition graph as its output
// representation and Reduce to coalesce the resulting single-character
// edges.
package dafsa

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/lacewing-dev/automaton"
)

var nextNodeID int64

type node struct {
	num      int64
	children map[rune]*node
	accept   bool
}

func newNode() *node {
	return &node{num: atomic.AddInt64(&nextNodeID, 1), children: make(map[rune]*node)}
}

type uncheckedEdge struct {
	parent *node
	ch     rune
	child  *node
}

// Builder incrementally constructs a minimal automaton from words supplied
// in non-decreasing lexicographic order via Insert.
type Builder struct {
	root      *node
	register  map[string]*node
	unchecked []uncheckedEdge
	lastWord  string
	started   bool
	done      bool
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: newNode(), register: make(map[string]*node)}
}

// Insert adds word to the automaton under construction. Words must arrive
// in non-decreasing lexicographic order (the same order sort.Strings
// produces, duplicates included); Insert returns an error if word sorts
// strictly before the previous insertion, or if the Builder has already
// been finalized by Build. A word equal to the previous one is accepted as
// a no-op: it walks down to the same node already marking it final and
// contributes no new state.
func (b *Builder) Insert(word string) error {
	if b.done {
		return fmt.Errorf("dafsa: Insert called after Build")
	}
	if b.started && word < b.lastWord {
		return fmt.Errorf("dafsa: words must be inserted in non-decreasing order: %q did not follow %q", word, b.lastWord)
	}
	b.started = true

	runes := []rune(word)
	prevRunes := []rune(b.lastWord)
	common := commonPrefixLen(prevRunes, runes)
	b.minimize(common)

	cur := b.root
	if len(b.unchecked) > 0 {
		cur = b.unchecked[len(b.unchecked)-1].child
	}
	for _, c := range runes[common:] {
		child := newNode()
		cur.children[c] = child
		b.unchecked = append(b.unchecked, uncheckedEdge{parent: cur, ch: c, child: child})
		cur = child
	}
	cur.accept = true
	b.lastWord = word
	return nil
}

// minimize pops unchecked edges down to (and not including) index downTo,
// registering or replacing each popped node's child with its canonical
// equivalent. Because the stack is popped from the end, every child has
// already been canonicalized by the time its parent's signature is
// computed, so signatures only ever reference stable node identities.
func (b *Builder) minimize(downTo int) {
	for len(b.unchecked) > downTo {
		last := b.unchecked[len(b.unchecked)-1]
		b.unchecked = b.unchecked[:len(b.unchecked)-1]

		sig := signatureOf(last.child)
		if existing, ok := b.register[sig]; ok {
			last.parent.children[last.ch] = existing
		} else {
			b.register[sig] = last.child
		}
	}
}

func signatureOf(n *node) string {
	keys := make([]rune, 0, len(n.children))
	for c := range n.children {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	sig := make([]byte, 0, 8+8*len(keys))
	if n.accept {
		sig = append(sig, '1')
	} else {
		sig = append(sig, '0')
	}
	for _, c := range keys {
		sig = append(sig, []byte(fmt.Sprintf(";%d=%d", c, n.children[c].num))...)
	}
	return string(sig)
}

func commonPrefixLen(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Build finalizes the automaton: it minimizes the remaining unchecked path
// (the suffix of the last inserted word), translates the canonical node
// graph into this module's State/Transition representation, and coalesces
// adjacent same-destination transitions. The Builder must not be reused
// afterward.
func (b *Builder) Build() (*automaton.Automaton, error) {
	if b.done {
		return nil, fmt.Errorf("dafsa: Build called twice")
	}
	b.minimize(0)
	b.done = true

	if len(b.root.children) == 0 && !b.root.accept {
		return automaton.Empty(), nil
	}

	states := make(map[*node]*automaton.State)
	var order []*node
	get := func(n *node) *automaton.State {
		if s, ok := states[n]; ok {
			return s
		}
		s := automaton.NewState()
		s.Accept = n.accept
		states[n] = s
		order = append(order, n)
		return s
	}

	rootState := get(b.root)
	for i := 0; i < len(order); i++ {
		n := order[i]
		s := states[n]
		keys := make([]rune, 0, len(n.children))
		for c := range n.children {
			keys = append(keys, c)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, c := range keys {
			child := n.children[c]
			s.AddRangeTransition(c, c, get(child))
		}
	}

	result := automaton.New(rootState, true)
	automaton.Reduce(result)
	return result, nil
}

// BuildFromSorted is a convenience wrapper that inserts every word in words
// (which must already be sorted; repeated words are accepted and add
// nothing) and returns the resulting automaton.
func BuildFromSorted(words []string) (*automaton.Automaton, error) {
	b := NewBuilder()
	for _, w := range words {
		if err := b.Insert(w); err != nil {
			return nil, err
		}
	}
	return b.Build()
}
