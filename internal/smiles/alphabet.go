package smiles

import "strings"

// Classification tables. Shared read-only by every decode.
const (
	atomSymbols    = "CONSIFPconsifpRXZ"
	bondSymbols    = "=#"
	bracketSymbols = "[]"
	chargeSymbols  = "+-"
	ringDigits     = "123456789"
	branchSymbols  = "()"
)

// twoLetter maps two-letter element symbols to their one-letter placeholders.
var twoLetter = [...]struct{ from, to string }{
	{"Br", "X"},
	{"Cl", "Z"},
}

func isAtom(c byte) bool    { return c != 0 && strings.IndexByte(atomSymbols, c) >= 0 }
func isBond(c byte) bool    { return c != 0 && strings.IndexByte(bondSymbols, c) >= 0 }
func isBracket(c byte) bool { return c == '[' || c == ']' }
func isCharge(c byte) bool  { return c == '+' || c == '-' }
func isDigit(c byte) bool   { return c >= '1' && c <= '9' }
func isBranch(c byte) bool  { return c == '(' || c == ')' }

// isLinear reports whether c terminates a left or right neighbour walk.
func isLinear(c byte) bool {
	return isAtom(c) || isBond(c) || isBracket(c) || isCharge(c)
}

// isKnown reports whether c belongs to the normalized alphabet.
func isKnown(c byte) bool {
	return isLinear(c) || isDigit(c) || isBranch(c)
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// at returns s[i], or 0 when i is outside s.
func at(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// caseOf classifies the cased letters of sym.
// Both results are false when sym has no letters.
func caseOf(sym string) (lower, upper bool) {
	var sawLower, sawUpper bool
	for i := 0; i < len(sym); i++ {
		switch {
		case isLower(sym[i]):
			sawLower = true
		case isUpper(sym[i]):
			sawUpper = true
		}
	}
	return sawLower && !sawUpper, sawUpper && !sawLower
}
