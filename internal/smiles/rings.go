package smiles

import (
	"github.com/hpungsan/molgraph/internal/errors"
)

// ringTable records ring junctions keyed by digit position.
// Every digit position is in exactly one of opens or closes, and
// complement[p] is set for every paired p.
type ringTable struct {
	self       map[int]Atom
	complement map[int]Atom
	opens      []int
	closes     []int
}

// count returns the number of closed rings.
func (r *ringTable) count() int {
	return len(r.self) / 2
}

// pairRings scans the case-preserved string and pairs ring digits.
// A digit value becomes reusable as soon as its ring closes.
func pairRings(s string, b brackets) (*ringTable, error) {
	r := &ringTable{
		self:       map[int]Atom{},
		complement: map[int]Atom{},
	}
	pending := map[byte]int{}
	index := -1
	symbol := ""

	for pos := 0; pos < len(s); pos++ {
		c := s[pos]
		if isAtom(c) {
			index++
			symbol = string(c)
		}
		if !isDigit(c) {
			continue
		}
		if at(s, pos-1) == ']' {
			group, err := b.group(s, pos-1)
			if err != nil {
				return nil, err
			}
			symbol = group
		}
		atom := Atom{Index: index, Symbol: symbol}
		r.self[pos] = atom

		if open, ok := pending[c]; ok {
			r.complement[open] = atom
			r.complement[pos] = r.self[open]
			r.closes = append(r.closes, pos)
			delete(pending, c)
			continue
		}
		r.opens = append(r.opens, pos)
		pending[c] = pos
	}

	if len(pending) > 0 {
		first := -1
		var digit byte
		for d, pos := range pending {
			if first < 0 || pos < first {
				first, digit = pos, d
			}
		}
		return nil, errors.NewUnclosedRing(string(digit), first)
	}
	return r, nil
}

// classifyRings counts aromatic and non-aromatic rings from junction case.
func classifyRings(s string, r *ringTable) RingCounts {
	counts := RingCounts{Total: r.count()}

	var letters []byte
	for i := 0; i < len(s); i++ {
		if isLower(s[i]) || isUpper(s[i]) {
			letters = append(letters, s[i])
		}
	}
	allLower, allUpper := caseOf(string(letters))
	switch {
	case allLower:
		counts.Aromatic = counts.Total
		return counts
	case allUpper:
		counts.NonAromatic = counts.Total
		return counts
	}

	for _, pos := range r.opens {
		openLower, openUpper := caseOf(r.self[pos].Symbol)
		closeLower, closeUpper := caseOf(r.complement[pos].Symbol)
		next := at(s, pos+1)

		var aromatic bool
		switch {
		case openLower && closeLower:
			aromatic = true
			if isAtom(next) {
				aromatic = isLower(next)
			}
		case openUpper && closeUpper:
			aromatic = false
			if isAtom(next) {
				aromatic = isLower(next)
			}
		default:
			aromatic = false
		}

		if aromatic {
			counts.Aromatic++
		} else {
			counts.NonAromatic++
		}
	}
	return counts
}
