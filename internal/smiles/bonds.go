package smiles

import (
	"github.com/hpungsan/molgraph/internal/errors"
)

// bondWalker resolves neighbours on the upper-cased string. It holds only
// read-only inputs; each walk keeps its own position, index and depth.
type bondWalker struct {
	s     string
	b     brackets
	rings *ringTable
}

// buildBonds returns the adjacency list of every atom: the left neighbour
// (if any) followed by the right neighbours in discovery order.
func buildBonds(s string, b brackets, rings *ringTable) ([][]Atom, error) {
	w := bondWalker{s: s, b: b, rings: rings}
	var bonds [][]Atom
	index := -1

	for pos := 0; pos < len(s); pos++ {
		if !isAtom(s[pos]) {
			continue
		}
		index++

		left, right := pos, pos
		if at(s, pos-1) == '[' {
			left = pos - 1
			right = b.closeOf[pos-1]
		}

		adj := []Atom{}
		lb, ok, err := w.left(left, index)
		if err != nil {
			return nil, err
		}
		if ok {
			adj = append(adj, lb)
		}
		rb, err := w.right(right, index)
		if err != nil {
			return nil, err
		}
		adj = append(adj, rb...)
		bonds = append(bonds, adj)
	}
	return bonds, nil
}

// left walks backwards from pos to the single atom bonded on the left.
// Branches closed on the way are skipped. A ')' met at depth -1 means the
// walk started in a sibling branch, so X(Y)(Z) bonds Z to X.
func (w bondWalker) left(pos, index int) (Atom, bool, error) {
	pos--
	if pos < 0 {
		return Atom{}, false, nil
	}
	c := w.s[pos]

	prefix := ""
	if isBond(c) {
		prefix = string(c)
		pos--
		if pos < 0 {
			return Atom{}, false, nil
		}
		c = w.s[pos]
	}

	depth := 0
	for !isLinear(c) || depth > 0 {
		if c == ')' && depth == -1 {
			depth = 0
		}
		switch {
		case c == ')':
			depth++
		case c == '(':
			depth--
		case isAtom(c):
			index--
		}
		pos--
		if pos < 0 {
			return Atom{}, false, nil
		}
		c = w.s[pos]
	}

	symbol := string(c)
	if c == ']' {
		group, err := w.b.group(w.s, pos)
		if err != nil {
			return Atom{}, false, err
		}
		symbol = group
	}
	return Atom{Index: index - 1, Symbol: prefix + symbol}, true, nil
}

// right walks forwards from pos and returns every atom bonded on the right:
// the first atom of each branch, each ring-closure partner, and the next
// atom on the chain.
func (w bondWalker) right(pos, index int) ([]Atom, error) {
	pos++
	if pos >= len(w.s) {
		return nil, nil
	}
	c := w.s[pos]
	if c == ')' {
		return nil, nil
	}

	var bonds []Atom
	depth := 0
	for !isLinear(c) || depth > 0 {
		if c == '(' {
			if depth == 0 {
				inner, err := w.right(pos, index)
				if err != nil {
					return nil, err
				}
				if len(inner) > 0 {
					bonds = append(bonds, inner[0])
				}
			}
			depth++
		}
		if c == ')' {
			depth--
		}
		if isAtom(c) {
			index++
		}
		if depth == 0 && isDigit(c) {
			bonds = append(bonds, w.rings.complement[pos])
		}

		pos++
		if pos >= len(w.s) || depth < 0 {
			return bonds, nil
		}
		c = w.s[pos]
	}

	index++
	switch {
	case isAtom(c):
		bonds = append(bonds, Atom{Index: index, Symbol: string(c)})
	case isBond(c):
		next := at(w.s, pos+1)
		if next == 0 {
			return nil, errors.NewMalformedSmiles("dangling bond", pos)
		}
		symbol := string(next)
		if next == '[' {
			group, err := w.b.group(w.s, pos+1)
			if err != nil {
				return nil, err
			}
			symbol = group
		}
		bonds = append(bonds, Atom{Index: index, Symbol: string(c) + symbol})
	case c == '[':
		group, err := w.b.group(w.s, pos)
		if err != nil {
			return nil, err
		}
		bonds = append(bonds, Atom{Index: index, Symbol: group})
	}
	return bonds, nil
}
