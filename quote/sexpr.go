package quote

import (
	"fmt"
	"strings"
	"unicode"
)

// gnc-fq-helper replies with an S-expression, e.g.
//
//	(("VBTLX" (symbol . "VBTLX")
//	          (gnc:time-no-zone . "2019-12-11 12:00:00")
//	          (last . 11.0900)
//	          (currency . "USD")))
//
// The node model below is the minimum needed to walk that shape: an atom
// (symbol, number, or quoted string) or a list. Dotted pairs are read as
// two-element lists with the dot discarded.

type sexpr struct {
	atom string
	list []sexpr
}

func (s sexpr) isAtom() bool { return s.list == nil }

// fields returns the association value for a (key . value) entry in a list.
func (s sexpr) field(key string) (string, bool) {
	for _, e := range s.list {
		if len(e.list) >= 2 && e.list[0].atom == key {
			return e.list[len(e.list)-1].atom, true
		}
	}
	return "", false
}

func parseSexpr(input string) (sexpr, error) {
	p := &sexprParser{input: input}
	p.skipSpace()
	node, err := p.parse()
	if err != nil {
		return sexpr{}, err
	}
	return node, nil
}

type sexprParser struct {
	input string
	pos   int
}

func (p *sexprParser) parse() (sexpr, error) {
	if p.pos >= len(p.input) {
		return sexpr{}, fmt.Errorf("unexpected end of quote reply")
	}
	switch c := p.input[p.pos]; {
	case c == '(':
		p.pos++
		node := sexpr{list: []sexpr{}}
		for {
			p.skipSpace()
			if p.pos >= len(p.input) {
				return sexpr{}, fmt.Errorf("unclosed list in quote reply")
			}
			if p.input[p.pos] == ')' {
				p.pos++
				return node, nil
			}
			// a lone dot separates a pair; the shape is kept as a flat list
			if p.input[p.pos] == '.' && p.pos+1 < len(p.input) && unicode.IsSpace(rune(p.input[p.pos+1])) {
				p.pos++
				continue
			}
			child, err := p.parse()
			if err != nil {
				return sexpr{}, err
			}
			node.list = append(node.list, child)
		}
	case c == '"':
		p.pos++
		end := strings.IndexByte(p.input[p.pos:], '"')
		if end < 0 {
			return sexpr{}, fmt.Errorf("unclosed string in quote reply")
		}
		atom := p.input[p.pos : p.pos+end]
		p.pos += end + 1
		return sexpr{atom: atom}, nil
	default:
		start := p.pos
		for p.pos < len(p.input) {
			c := p.input[p.pos]
			if c == '(' || c == ')' || c == '"' || unicode.IsSpace(rune(c)) {
				break
			}
			p.pos++
		}
		if p.pos == start {
			return sexpr{}, fmt.Errorf("unexpected character %q in quote reply", p.input[p.pos])
		}
		return sexpr{atom: p.input[start:p.pos]}, nil
	}
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}
