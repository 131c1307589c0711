package smiles

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is matched by every error returned from [Parse].
var ErrSyntax = errors.New("smiles: syntax error")

// SyntaxError describes malformed SMILES input.
type SyntaxError struct {
	Pos int    // byte offset into the input
	Msg string // human readable description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("smiles: %s at position %d", e.Msg, e.Pos)
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

const bondSymbols = "-=#$:/\\."

type openRing struct {
	id   int
	node *Node
	bond string
	pos  int
}

type parser struct {
	src    string
	pos    int
	open   map[int]openRing
	nextID int
}

// Parse parses a SMILES string into its parse tree. Surrounding whitespace
// is ignored. Anything after the first whitespace inside the string (the
// conventional title field) is ignored as well.
func Parse(s string) (*Node, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty input"}
	}

	p := &parser{src: s, open: make(map[int]openRing)}
	root, err := p.chain()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		if p.src[p.pos] == ')' {
			return nil, p.errorf("unmatched ')'")
		}
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	if len(p.open) > 0 {
		first := openRing{pos: len(p.src)}
		label := 0
		for l, o := range p.open {
			if o.pos < first.pos {
				first, label = o, l
			}
		}
		return nil, &SyntaxError{Pos: first.pos, Msg: fmt.Sprintf("unclosed ring bond %d", label)}
	}
	return root, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level fixtures.
func MustParse(s string) *Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

// chain parses branched atoms joined by bonds until ')' or the end of input.
// The chain itself is consumed iteratively; only branches recurse.
func (p *parser) chain() (*Node, error) {
	head, err := p.branchedAtom()
	if err != nil {
		return nil, err
	}
	cur := head
	for !p.eof() && p.peek() != ')' {
		bondPos := p.pos
		bond := p.bond()
		if p.eof() || p.peek() == ')' {
			return nil, &SyntaxError{Pos: bondPos, Msg: fmt.Sprintf("bond %q without a following atom", bond)}
		}
		next, err := p.branchedAtom()
		if err != nil {
			return nil, err
		}
		cur.Bond = bond
		cur.Next = next
		cur = next
	}
	return head, nil
}

func (p *parser) branchedAtom() (*Node, error) {
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	node := &Node{Atom: atom}

	for {
		start := p.pos
		bond := p.bond()
		label, ok, err := p.ringLabel()
		if err != nil {
			return nil, err
		}
		if !ok {
			p.pos = start
			break
		}
		if err := p.ringbond(node, label, bond, start); err != nil {
			return nil, err
		}
	}

	for p.peek() == '(' {
		open := p.pos
		p.pos++
		bond := p.bond()
		if p.eof() || p.peek() == ')' {
			return nil, &SyntaxError{Pos: open, Msg: "empty branch"}
		}
		child, err := p.chain()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, &SyntaxError{Pos: open, Msg: "unclosed branch"}
		}
		p.pos++
		child.BranchBond = bond
		node.Branches = append(node.Branches, child)
	}
	return node, nil
}

func (p *parser) bond() string {
	if c := p.peek(); c != 0 && strings.IndexByte(bondSymbols, c) >= 0 {
		p.pos++
		return string(c)
	}
	return ""
}

func (p *parser) ringLabel() (int, bool, error) {
	c := p.peek()
	switch {
	case isDigit(c):
		p.pos++
		return int(c - '0'), true, nil
	case c != '%':
		return 0, false, nil
	}

	start := p.pos
	p.pos++
	if p.peek() == '(' {
		p.pos++
		n, ok := p.number()
		if !ok || p.peek() != ')' {
			return 0, false, &SyntaxError{Pos: start, Msg: "malformed ring bond number"}
		}
		p.pos++
		return n, true, nil
	}
	if p.pos+2 > len(p.src) || !isDigit(p.src[p.pos]) || !isDigit(p.src[p.pos+1]) {
		return 0, false, &SyntaxError{Pos: start, Msg: "'%' must be followed by two digits"}
	}
	n := int(p.src[p.pos]-'0')*10 + int(p.src[p.pos+1]-'0')
	p.pos += 2
	return n, true, nil
}

func (p *parser) ringbond(n *Node, label int, bond string, pos int) error {
	o, ok := p.open[label]
	if !ok {
		p.nextID++
		p.open[label] = openRing{id: p.nextID, node: n, bond: bond, pos: pos}
		n.Ringbonds = append(n.Ringbonds, Ringbond{ID: p.nextID, Label: label, Bond: bond})
		return nil
	}
	if o.node == n {
		return &SyntaxError{Pos: pos, Msg: fmt.Sprintf("ring bond %d closes on its own atom", label)}
	}
	if o.bond != "" && bond != "" && o.bond != bond && !isDirectional(o.bond) && !isDirectional(bond) {
		return &SyntaxError{Pos: pos, Msg: fmt.Sprintf("conflicting bonds %q and %q for ring bond %d", o.bond, bond, label)}
	}
	delete(p.open, label)
	n.Ringbonds = append(n.Ringbonds, Ringbond{ID: o.id, Label: label, Bond: bond})
	return nil
}

func (p *parser) atom() (Atom, error) {
	if p.eof() {
		return Atom{}, p.errorf("expected atom")
	}
	c := p.src[p.pos]
	switch c {
	case '[':
		return p.bracketAtom()
	case '*':
		p.pos++
		return Atom{Symbol: "*"}, nil
	case 'B', 'C':
		if p.pos+1 < len(p.src) && (c == 'B' && p.src[p.pos+1] == 'r' || c == 'C' && p.src[p.pos+1] == 'l') {
			p.pos += 2
			return Atom{Symbol: p.src[p.pos-2 : p.pos]}, nil
		}
		p.pos++
		return Atom{Symbol: string(c)}, nil
	case 'N', 'O', 'P', 'S', 'F', 'I', 'b', 'c', 'n', 'o', 'p', 's':
		p.pos++
		return Atom{Symbol: string(c)}, nil
	}
	return Atom{}, p.errorf("unexpected %q", c)
}

func (p *parser) bracketAtom() (Atom, error) {
	start := p.pos
	p.pos++

	b := &Bracket{}
	if n, ok := p.number(); ok {
		b.Isotope = n
	}

	sym, err := p.bracketSymbol()
	if err != nil {
		return Atom{}, err
	}
	b.Element = sym

	if p.peek() == '@' {
		b.Chirality = p.chirality()
	}

	if p.peek() == 'H' {
		p.pos++
		b.HCount = 1
		if n, ok := p.number(); ok {
			b.HCount = n
		}
	}

	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
		sign := 1
		if c == '-' {
			sign = -1
		}
		if n, ok := p.number(); ok {
			b.Charge = sign * n
		} else {
			b.Charge = sign
			for p.peek() == c {
				p.pos++
				b.Charge += sign
			}
		}
	}

	if p.peek() == ':' {
		p.pos++
		n, ok := p.number()
		if !ok {
			return Atom{}, p.errorf("expected atom class")
		}
		b.Class = n
	}

	if p.eof() {
		return Atom{}, &SyntaxError{Pos: start, Msg: "unclosed bracket atom"}
	}
	if p.peek() != ']' {
		return Atom{}, p.errorf("unexpected %q in bracket atom", p.peek())
	}
	p.pos++
	return Atom{Bracket: b}, nil
}

func (p *parser) bracketSymbol() (string, error) {
	c := p.peek()
	switch {
	case c == '*':
		p.pos++
		return "*", nil
	case isUpper(c):
		if p.pos+1 < len(p.src) && isLower(p.src[p.pos+1]) {
			if two := p.src[p.pos : p.pos+2]; IsElement(two) {
				p.pos += 2
				return two, nil
			}
		}
		if one := string(c); IsElement(one) {
			p.pos++
			return one, nil
		}
	case isLower(c):
		if p.pos+1 < len(p.src) {
			if two := p.src[p.pos : p.pos+2]; aromaticSymbols[two] {
				p.pos += 2
				return two, nil
			}
		}
		if one := string(c); aromaticSymbols[one] {
			p.pos++
			return one, nil
		}
	}
	return "", p.errorf("unknown element in bracket atom")
}

var chiralClasses = []string{"TH", "AL", "SP", "TB", "OH"}

func (p *parser) chirality() string {
	start := p.pos
	p.pos++
	if p.peek() == '@' {
		p.pos++
		return "@@"
	}
	for _, cls := range chiralClasses {
		if strings.HasPrefix(p.src[p.pos:], cls) {
			p.pos += len(cls)
			p.number()
			break
		}
	}
	return p.src[start:p.pos]
}

func (p *parser) number() (int, bool) {
	start := p.pos
	n := 0
	for isDigit(p.peek()) {
		n = n*10 + int(p.src[p.pos]-'0')
		p.pos++
	}
	return n, p.pos > start
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isDirectional(bond string) bool { return bond == "/" || bond == "\\" }
