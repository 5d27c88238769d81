package smiles

import (
	"strings"

	"github.com/hpungsan/molgraph/internal/errors"
)

// Normalize strips explicit-hydrogen bracket groups down to their element
// symbol and rewrites two-letter elements to one-letter placeholders.
// Case is preserved. Normalizing a normalized string returns it unchanged.
func Normalize(raw string) (string, error) {
	s := raw
	for {
		open, h := hydrogenGroup(s)
		if h < 0 {
			break
		}
		end := strings.IndexByte(s[h:], ']')
		if end < 0 {
			return "", errors.NewMalformedBracket(open)
		}
		end += h
		s = s[:open] + elementToken(s[open+1:]) + s[end+1:]
	}
	return contractTwoLetter(s), nil
}

// hydrogenGroup returns the opening bracket and H position of the first
// bracket group containing an H, or h < 0 when none remains.
func hydrogenGroup(s string) (open, h int) {
	open = -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			open = i
		case ']':
			open = -1
		case 'H':
			if open >= 0 {
				return open, i
			}
		}
	}
	return -1, -1
}

// elementToken returns the element symbol at the start of rest.
func elementToken(rest string) string {
	if len(rest) >= 2 {
		for _, tl := range twoLetter {
			if rest[:2] == tl.from {
				return rest[:2]
			}
		}
	}
	return rest[:1]
}

func contractTwoLetter(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		matched := false
		if i+1 < len(s) {
			for _, tl := range twoLetter {
				if s[i:i+2] == tl.from {
					b.WriteString(tl.to)
					i++
					matched = true
					break
				}
			}
		}
		if !matched {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
