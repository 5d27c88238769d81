package smiles

import (
	"github.com/hpungsan/molgraph/internal/errors"
)

// brackets pairs every charge group's opening and closing positions.
type brackets struct {
	closeOf map[int]int
	openOf  map[int]int
}

// group returns the full charge group starting or ending at pos.
func (b brackets) group(s string, pos int) (string, error) {
	if end, ok := b.closeOf[pos]; ok {
		return s[pos : end+1], nil
	}
	if start, ok := b.openOf[pos]; ok {
		return s[start : pos+1], nil
	}
	return "", errors.NewMalformedBracket(pos)
}

// validate checks the normalized string against the supported alphabet and
// the structural rules the decoder relies on.
func validate(s string) (brackets, error) {
	b := brackets{closeOf: map[int]int{}, openOf: map[int]int{}}

	for i := 0; i < len(s); i++ {
		if !isKnown(s[i]) {
			return b, errors.NewUnsupportedElement(string(s[i]), i)
		}
	}

	open := -1
	depth := 0
	sawAtom := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '[':
			if open >= 0 {
				return b, errors.NewMalformedBracket(open)
			}
			open = i
		case c == ']':
			if open < 0 {
				return b, errors.NewMalformedBracket(i)
			}
			if err := checkGroup(s[open+1:i], open); err != nil {
				return b, err
			}
			b.closeOf[open] = i
			b.openOf[i] = open
			open = -1
		case open >= 0:
			if !isAtom(c) && !isCharge(c) {
				return b, errors.NewMalformedBracket(open)
			}
		case isAtom(c):
			sawAtom = true
		case isCharge(c):
			return b, errors.NewMalformedSmiles("charge outside bracket group", i)
		case isBond(c):
			next := at(s, i+1)
			if i == 0 || !(isAtom(next) || next == '[') {
				return b, errors.NewMalformedSmiles("dangling bond", i)
			}
		case isDigit(c):
			if !sawAtom {
				return b, errors.NewMalformedSmiles("ring digit before any atom", i)
			}
		case c == '(':
			if !sawAtom {
				return b, errors.NewMalformedSmiles("branch before any atom", i)
			}
			if at(s, i+1) == ')' {
				return b, errors.NewMalformedSmiles("empty branch", i)
			}
			depth++
		case c == ')':
			if depth == 0 {
				return b, errors.NewMalformedSmiles("unbalanced branch", i)
			}
			depth--
		}
		if open >= 0 && isAtom(c) {
			sawAtom = true
		}
	}
	if open >= 0 {
		return b, errors.NewMalformedBracket(open)
	}
	if depth != 0 {
		return b, errors.NewMalformedSmiles("unclosed branch", len(s)-1)
	}
	if !sawAtom {
		return b, errors.NewMalformedSmiles("no atoms", 0)
	}
	return b, nil
}

// checkGroup requires a charge group body of one atom followed by charges.
func checkGroup(body string, open int) error {
	if body == "" || !isAtom(body[0]) {
		return errors.NewMalformedBracket(open)
	}
	for i := 1; i < len(body); i++ {
		if !isCharge(body[i]) {
			return errors.NewMalformedBracket(open)
		}
	}
	return nil
}
