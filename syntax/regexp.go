// Package syntax implements the extended regular expression grammar: a
// recursive-descent parser that lowers a pattern string directly to an
// *automaton.Automaton, following the grammar and lowering style of
// geange-automaton's regexp.go but built on the pointer-based Automaton
// and State types instead of a flat-int-array representation.
package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lacewing-dev/automaton"
)

// Syntax flag bits enable optional grammar features, mirroring the
// teacher's flag set. Flags combine with bitwise OR; All enables every
// grammar extension. AsciiCaseInsensitive is a matching mode outside All and
// must be set separately.
const (
	Intersection         = 0x0001
	Complement           = 0x0002
	EmptyLanguage        = 0x0004
	AnyStringToken       = 0x0008
	AutomatonRef         = 0x0010
	IntervalRef          = 0x0020
	All                  = 0x00ff
	AsciiCaseInsensitive = 0x0100
)

// Kind identifies the variant of a parsed regular expression node.
type Kind int

const (
	KindUnion Kind = iota
	KindConcatenation
	KindIntersection
	KindOptional
	KindRepeat
	KindRepeatMin
	KindRepeatRange
	KindComplement
	KindChar
	KindCharRange
	KindAnyChar
	KindEmpty
	KindString
	KindAnyString
	KindAutomaton
	KindInterval
	// KindPrebuilt wraps an automaton already constructed by the parser
	// itself (used for the \d\D\s\S\w\W shorthand classes, which have no
	// counterpart in the teacher's grammar and are built directly rather
	// than expressed as further Kind nodes).
	KindPrebuilt
)

// Node is one node of the parsed expression tree.
type Node struct {
	kind       Kind
	exp1, exp2 *Node
	str        string
	char       rune
	min, max   int
	digits     int
	from, to   rune
	built      *automaton.Automaton
	flags      int
}

// Provider resolves a named automaton reference such as <ipv4> to a
// concrete *automaton.Automaton.
type Provider func(name string) (*automaton.Automaton, error)

// Regexp is a parsed, not-yet-compiled regular expression.
type Regexp struct {
	root  *Node
	flags int
}

// Parse parses pattern under the given syntax flags (0 enables nothing
// beyond the core grammar; use All to enable every extension).
func Parse(pattern string, flags int) (*Regexp, error) {
	if flags&^(All|AsciiCaseInsensitive) != 0 {
		return nil, fmt.Errorf("syntax: illegal syntax flags %#x", flags)
	}
	p := &parser{runes: []rune(pattern), flags: flags}
	if len(pattern) == 0 {
		return &Regexp{root: &Node{kind: KindString, str: ""}, flags: flags}, nil
	}
	n, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.runes) {
		return nil, fmt.Errorf("syntax: unexpected %q at position %d", p.runes[p.pos], p.pos)
	}
	return &Regexp{root: n, flags: flags}, nil
}

// Compile parses pattern and lowers it straight to an automaton, resolving
// any <name> references via provider (which may be nil if the pattern
// contains none). See Regexp.Compile for which results are minimized.
func Compile(pattern string, flags int, provider Provider) (*automaton.Automaton, error) {
	re, err := Parse(pattern, flags)
	if err != nil {
		return nil, err
	}
	return re.Compile(provider)
}

// Compile lowers the parsed tree to an automaton. Every composite node
// (union, concatenation, intersection, repetition, optional, complement) is
// minimized as it is built; a pattern that is only an <a-b> interval or a
// <name> reference returns that automaton as built, without minimizing it.
func (re *Regexp) Compile(provider Provider) (*automaton.Automaton, error) {
	return toAutomaton(re.root, provider)
}

func toAutomaton(n *Node, provider Provider) (*automaton.Automaton, error) {
	switch n.kind {
	case KindUnion:
		var list []*automaton.Automaton
		if err := collectFlattened(n.exp1, KindUnion, &list, provider); err != nil {
			return nil, err
		}
		if err := collectFlattened(n.exp2, KindUnion, &list, provider); err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Union(list, nil), nil), nil

	case KindConcatenation:
		var list []*automaton.Automaton
		if err := collectFlattened(n.exp1, KindConcatenation, &list, provider); err != nil {
			return nil, err
		}
		if err := collectFlattened(n.exp2, KindConcatenation, &list, provider); err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Concatenate(list, nil), nil), nil

	case KindIntersection:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		a2, err := toAutomaton(n.exp2, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Intersection(a1, a2, nil), nil), nil

	case KindOptional:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Optional(a1, nil), nil), nil

	case KindRepeat:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Repeat(a1, nil), nil), nil

	case KindRepeatMin:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.RepeatMin(a1, n.min, nil), nil), nil

	case KindRepeatRange:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.RepeatRange(a1, n.min, n.max, nil), nil), nil

	case KindComplement:
		a1, err := toAutomaton(n.exp1, provider)
		if err != nil {
			return nil, err
		}
		return automaton.Minimize(automaton.Complement(a1, nil), nil), nil

	case KindChar:
		if n.flags&AsciiCaseInsensitive != 0 {
			return caseInsensitiveChar(n.char), nil
		}
		return automaton.Char(n.char), nil

	case KindCharRange:
		return automaton.CharRange(n.from, n.to), nil

	case KindAnyChar:
		return printableASCII(), nil

	case KindEmpty:
		return automaton.Empty(), nil

	case KindString:
		if n.flags&AsciiCaseInsensitive != 0 {
			return caseInsensitiveString(n.str), nil
		}
		return automaton.String(n.str), nil

	case KindAnyString:
		return automaton.AnyString(), nil

	case KindAutomaton:
		if provider == nil {
			return nil, fmt.Errorf("syntax: %q not found (no provider)", n.str)
		}
		a, err := provider(n.str)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, fmt.Errorf("syntax: %q not found", n.str)
		}
		return a, nil

	case KindInterval:
		return automaton.Interval(n.min, n.max, n.digits)

	case KindPrebuilt:
		return n.built, nil
	}
	return nil, fmt.Errorf("syntax: unhandled node kind %d", n.kind)
}

// collectFlattened walks a chain of same-kind union/concatenation nodes
// (nested on either side, as built by makeUnion/makeConcatenation) and appends the
// automaton for each non-matching leaf, so an expression like a|b|c lowers
// to one 3-way Union call instead of two nested 2-way ones.
func collectFlattened(n *Node, kind Kind, list *[]*automaton.Automaton, provider Provider) error {
	if n.kind == kind {
		if err := collectFlattened(n.exp1, kind, list, provider); err != nil {
			return err
		}
		return collectFlattened(n.exp2, kind, list, provider)
	}
	a, err := toAutomaton(n, provider)
	if err != nil {
		return err
	}
	*list = append(*list, a)
	return nil
}

func caseInsensitiveChar(c rune) *automaton.Automaton {
	if c > unicode.MaxASCII {
		return automaton.Char(c)
	}
	alt := c
	if unicode.IsLower(c) {
		alt = unicode.ToUpper(c)
	} else if unicode.IsUpper(c) {
		alt = unicode.ToLower(c)
	}
	if alt == c {
		return automaton.Char(c)
	}
	return automaton.Minimize(automaton.Union([]*automaton.Automaton{automaton.Char(c), automaton.Char(alt)}, nil), nil)
}

func caseInsensitiveString(s string) *automaton.Automaton {
	var list []*automaton.Automaton
	for _, c := range s {
		list = append(list, caseInsensitiveChar(c))
	}
	return automaton.Minimize(automaton.Concatenate(list, nil), nil)
}

// printableAsciiMin and printableAsciiMax bound the universe that '.' and
// character-class negation (including the \D\S\W shorthands) are defined
// against: printable ASCII, not the automaton library's full BMP alphabet.
// Per the source this grammar is modeled on, this is a deliberate narrowing
// driven by the random-generator use case, and negation is defined against
// this universe even though it is smaller than the full alphabet the
// automaton library otherwise supports.
const (
	printableAsciiMin = 0x20
	printableAsciiMax = 0x7E
)

func printableASCII() *automaton.Automaton {
	return automaton.CharRange(printableAsciiMin, printableAsciiMax)
}

func newNode(kind Kind) *Node { return &Node{kind: kind} }

func makeUnion(flags int, e1, e2 *Node) *Node {
	n := newNode(KindUnion)
	n.exp1, n.exp2, n.flags = e1, e2, flags
	return n
}

func makeConcatenation(flags int, e1, e2 *Node) *Node {
	n := newNode(KindConcatenation)
	n.exp1, n.exp2, n.flags = e1, e2, flags
	return n
}

func makeIntersection(flags int, e1, e2 *Node) *Node {
	n := newNode(KindIntersection)
	n.exp1, n.exp2, n.flags = e1, e2, flags
	return n
}

func makeOptional(flags int, e *Node) *Node {
	n := newNode(KindOptional)
	n.exp1, n.flags = e, flags
	return n
}

func makeRepeat(flags int, e *Node) *Node {
	n := newNode(KindRepeat)
	n.exp1, n.flags = e, flags
	return n
}

func makeRepeatMin(flags int, e *Node, min int) *Node {
	n := newNode(KindRepeatMin)
	n.exp1, n.min, n.flags = e, min, flags
	return n
}

func makeRepeatRange(flags int, e *Node, min, max int) *Node {
	n := newNode(KindRepeatRange)
	n.exp1, n.min, n.max, n.flags = e, min, max, flags
	return n
}

func makeComplement(flags int, e *Node) *Node {
	n := newNode(KindComplement)
	n.exp1, n.flags = e, flags
	return n
}

func makeChar(flags int, c rune) *Node {
	n := newNode(KindChar)
	n.char, n.flags = c, flags
	return n
}

func makeCharRange(flags int, from, to rune) (*Node, error) {
	if from > to {
		return nil, fmt.Errorf("syntax: invalid character range [%c-%c]", from, to)
	}
	n := newNode(KindCharRange)
	n.from, n.to, n.flags = from, to, flags
	return n, nil
}

func makeAnyChar(flags int) *Node {
	n := newNode(KindAnyChar)
	n.flags = flags
	return n
}

func makeEmpty(flags int) *Node {
	n := newNode(KindEmpty)
	n.flags = flags
	return n
}

func makeString(flags int, s string) *Node {
	n := newNode(KindString)
	n.str, n.flags = s, flags
	return n
}

func makeAnyString(flags int) *Node {
	n := newNode(KindAnyString)
	n.flags = flags
	return n
}

func makeAutomatonRef(flags int, name string) *Node {
	n := newNode(KindAutomaton)
	n.str, n.flags = name, flags
	return n
}

func makeInterval(flags, min, max, digits int) *Node {
	n := newNode(KindInterval)
	n.min, n.max, n.digits, n.flags = min, max, digits, flags
	return n
}

func makePrebuilt(flags int, a *automaton.Automaton) *Node {
	n := newNode(KindPrebuilt)
	n.built, n.flags = a, flags
	return n
}

// makeCharConcatOrString mirrors the teacher's special-casing in
// makeConcatenation: chains of plain characters and strings fuse into a
// single string node so "abc" doesn't build three nested concatenation
// nodes just to be fused right back together at lowering time.
func makeCharConcatOrString(flags int, e1, e2 *Node) *Node {
	if (e1.kind == KindChar || e1.kind == KindString) &&
		(e2.kind == KindChar || e2.kind == KindString) {
		return makeString(flags, nodeText(e1)+nodeText(e2))
	}
	return makeConcatenation(flags, e1, e2)
}

func nodeText(n *Node) string {
	if n.kind == KindString {
		return n.str
	}
	return string(n.char)
}

type parser struct {
	runes []rune
	pos   int
	flags int
}

func (p *parser) more() bool { return p.pos < len(p.runes) }

func (p *parser) peek(s string) bool {
	return p.more() && strings.ContainsRune(s, p.runes[p.pos])
}

func (p *parser) match(c rune) bool {
	if p.pos >= len(p.runes) || p.runes[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

func (p *parser) next() (rune, error) {
	if !p.more() {
		return 0, fmt.Errorf("syntax: unexpected end of pattern at position %d", p.pos)
	}
	c := p.runes[p.pos]
	p.pos++
	return c, nil
}

func (p *parser) check(flag int) bool { return p.flags&flag != 0 }

func (p *parser) parseUnion() (*Node, error) {
	e, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	if p.match('|') {
		e2, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return makeUnion(p.flags, e, e2), nil
	}
	return e, nil
}

func (p *parser) parseIntersection() (*Node, error) {
	e, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	if p.check(Intersection) && p.match('&') {
		e2, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		return makeIntersection(p.flags, e, e2), nil
	}
	return e, nil
}

func (p *parser) parseConcatenation() (*Node, error) {
	e, err := p.parseRepeat()
	if err != nil {
		return nil, err
	}
	if p.more() && !p.peek(")|") && (!p.check(Intersection) || !p.peek("&")) {
		e2, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		return makeCharConcatOrString(p.flags, e, e2), nil
	}
	return e, nil
}

func (p *parser) parseRepeat() (*Node, error) {
	e, err := p.parseComplement()
	if err != nil {
		return nil, err
	}
	for p.peek("?*+{") {
		switch {
		case p.match('?'):
			e = makeOptional(p.flags, e)
		case p.match('*'):
			e = makeRepeat(p.flags, e)
		case p.match('+'):
			e = makeRepeatMin(p.flags, e, 1)
		case p.match('{'):
			n, m, err := p.parseRepeatBounds()
			if err != nil {
				return nil, err
			}
			if m == -1 {
				e = makeRepeatMin(p.flags, e, n)
			} else {
				e = makeRepeatRange(p.flags, e, n, m)
			}
		}
	}
	return e, nil
}

func (p *parser) parseRepeatBounds() (min, max int, err error) {
	start := p.pos
	for p.peek("0123456789") {
		if _, err := p.next(); err != nil {
			return 0, 0, err
		}
	}
	if start == p.pos {
		return 0, 0, fmt.Errorf("syntax: integer expected at position %d", p.pos)
	}
	n, err := strconv.Atoi(string(p.runes[start:p.pos]))
	if err != nil {
		return 0, 0, err
	}
	m := -1
	if p.match(',') {
		start = p.pos
		for p.peek("0123456789") {
			if _, err := p.next(); err != nil {
				return 0, 0, err
			}
		}
		if start != p.pos {
			m, err = strconv.Atoi(string(p.runes[start:p.pos]))
			if err != nil {
				return 0, 0, err
			}
		}
	} else {
		m = n
	}
	if !p.match('}') {
		return 0, 0, fmt.Errorf("syntax: expected '}' at position %d", p.pos)
	}
	return n, m, nil
}

func (p *parser) parseComplement() (*Node, error) {
	if p.check(Complement) && p.match('~') {
		e, err := p.parseComplement()
		if err != nil {
			return nil, err
		}
		return makeComplement(p.flags, e), nil
	}
	return p.parseCharClass()
}

func (p *parser) parseCharClass() (*Node, error) {
	if p.match('[') {
		negate := p.match('^')
		e, err := p.parseCharClassAlternatives()
		if err != nil {
			return nil, err
		}
		if negate {
			e = makeIntersection(p.flags, makeAnyChar(p.flags), makeComplement(p.flags, e))
		}
		if !p.match(']') {
			return nil, fmt.Errorf("syntax: expected ']' at position %d", p.pos)
		}
		return e, nil
	}
	return p.parseAtom()
}

func (p *parser) parseCharClassAlternatives() (*Node, error) {
	e, err := p.parseCharClassItem()
	if err != nil {
		return nil, err
	}
	for p.more() && !p.peek("]") {
		e2, err := p.parseCharClassItem()
		if err != nil {
			return nil, err
		}
		e = makeUnion(p.flags, e, e2)
	}
	return e, nil
}

func (p *parser) parseCharClassItem() (*Node, error) {
	if p.peek("\\") && p.pos+1 < len(p.runes) && isShorthandEscape(p.runes[p.pos+1]) {
		letter := p.runes[p.pos+1]
		p.pos += 2
		return shorthandClassNode(p.flags, letter), nil
	}
	c, err := p.parseCharLiteral()
	if err != nil {
		return nil, err
	}
	if p.match('-') {
		c2, err := p.parseCharLiteral()
		if err != nil {
			return nil, err
		}
		return makeCharRange(p.flags, c, c2)
	}
	return makeChar(p.flags, c), nil
}

func (p *parser) parseAtom() (*Node, error) {
	if p.peek("\\") && p.pos+1 < len(p.runes) && isShorthandEscape(p.runes[p.pos+1]) {
		letter := p.runes[p.pos+1]
		p.pos += 2
		return shorthandClassNode(p.flags, letter), nil
	}
	if p.match('.') {
		return makeAnyChar(p.flags), nil
	}
	if p.check(EmptyLanguage) && p.match('#') {
		return makeEmpty(p.flags), nil
	}
	if p.check(AnyStringToken) && p.match('@') {
		return makeAnyString(p.flags), nil
	}
	if p.match('"') {
		start := p.pos
		for p.more() && !p.peek("\"") {
			if _, err := p.next(); err != nil {
				return nil, err
			}
		}
		if !p.match('"') {
			return nil, fmt.Errorf("syntax: expected closing '\"' at position %d", p.pos)
		}
		return makeString(p.flags, string(p.runes[start:p.pos-1])), nil
	}
	if p.match('(') {
		return p.parseGroupBody()
	}
	if (p.check(AutomatonRef) || p.check(IntervalRef)) && p.match('<') {
		return p.parseAngleReference()
	}
	c, err := p.parseCharLiteral()
	if err != nil {
		return nil, err
	}
	return makeChar(p.flags, c), nil
}

// parseGroupBody handles the content following an already-consumed '('. It
// accepts a plain group "(...)", the empty group "()", and lax non-capturing
// group markers "(?...:...)" where the run of characters between '?' and
// ':' (typically case/multiline flag letters, or nothing at all) is parsed
// but otherwise ignored: this parser has no notion of inline match flags
// beyond what the caller already set on the whole expression.
func (p *parser) parseGroupBody() (*Node, error) {
	if p.match(')') {
		return makeString(p.flags, ""), nil
	}
	if p.match('?') {
		for p.more() && p.runes[p.pos] != ':' && p.runes[p.pos] != ')' {
			p.pos++
		}
		if p.match(')') {
			return makeString(p.flags, ""), nil
		}
		if !p.match(':') {
			return nil, fmt.Errorf("syntax: expected ':' or ')' at position %d", p.pos)
		}
	}
	e, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if !p.match(')') {
		return nil, fmt.Errorf("syntax: expected ')' at position %d", p.pos)
	}
	return e, nil
}

func (p *parser) parseAngleReference() (*Node, error) {
	start := p.pos
	for p.more() && !p.peek(">") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
	}
	if !p.match('>') {
		return nil, fmt.Errorf("syntax: expected '>' at position %d", p.pos)
	}
	s := string(p.runes[start : p.pos-1])
	i := strings.IndexByte(s, '-')
	if i == -1 {
		if !p.check(AutomatonRef) {
			return nil, fmt.Errorf("syntax: interval syntax error at position %d", p.pos-1)
		}
		return makeAutomatonRef(p.flags, s), nil
	}
	if !p.check(IntervalRef) {
		return nil, fmt.Errorf("syntax: illegal identifier at position %d", p.pos-1)
	}
	if i == 0 || i == len(s)-1 || i != strings.LastIndexByte(s, '-') {
		return nil, fmt.Errorf("syntax: interval syntax error at position %d", p.pos-1)
	}
	smin, smax := s[:i], s[i+1:]
	imin, err := strconv.Atoi(smin)
	if err != nil {
		return nil, err
	}
	imax, err := strconv.Atoi(smax)
	if err != nil {
		return nil, err
	}
	digits := 0
	if len(smin) == len(smax) {
		digits = len(smin)
	}
	if imin > imax {
		imin, imax = imax, imin
	}
	return makeInterval(p.flags, imin, imax, digits), nil
}

func (p *parser) parseCharLiteral() (rune, error) {
	p.match('\\')
	return p.next()
}

func isShorthandEscape(c rune) bool {
	switch c {
	case 'd', 'D', 's', 'S', 'w', 'W':
		return true
	}
	return false
}

// shorthandClassNode builds the \d\D\s\S\w\W character-class shorthands.
// The lowercase forms are a plain CharSet; the uppercase (negated) forms
// use the same printableASCII-intersect-Complement idiom the grammar
// already uses for [^...], so they stay single-character matches rather
// than matching any string that merely isn't one of the allowed characters.
func shorthandClassNode(flags int, letter rune) *Node {
	positive := shorthandSpans(unicode.ToLower(letter))
	set := automaton.CharSet(positive)
	if unicode.IsUpper(letter) {
		negated := automaton.Minimize(automaton.Intersection(printableASCII(), automaton.Complement(set, nil), nil), nil)
		return makePrebuilt(flags, negated)
	}
	return makePrebuilt(flags, set)
}

func shorthandSpans(letter rune) []automaton.CharRangeSpan {
	switch letter {
	case 'd':
		return []automaton.CharRangeSpan{{Min: '0', Max: '9'}}
	case 's':
		// Deliberately {space, tab} only, not the full \s whitespace class of
		// most regex dialects: no newline, matching the narrowed semantics
		// this grammar documents for \s.
		return []automaton.CharRangeSpan{
			{Min: ' ', Max: ' '},
			{Min: '\t', Max: '\t'},
		}
	case 'w':
		return []automaton.CharRangeSpan{
			{Min: '0', Max: '9'},
			{Min: 'A', Max: 'Z'},
			{Min: 'a', Max: 'z'},
			{Min: '_', Max: '_'},
		}
	}
	return nil
}
