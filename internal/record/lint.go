package record

import "strings"

// LintInput contains parameters for linting a raw SMILES input.
type LintInput struct {
	Smiles   string
	MaxChars int
}

// LintResult contains the results of linting a raw SMILES input.
type LintResult struct {
	Valid       bool
	Empty       bool
	TooLarge    bool
	ActualChars int
	MaxChars    int
}

// Lint checks the size limits that apply before decoding.
// Surrounding whitespace is ignored; decoding itself rejects inner whitespace.
func Lint(input LintInput) *LintResult {
	text := strings.TrimSpace(input.Smiles)
	result := &LintResult{
		Valid:       true,
		ActualChars: CountChars(text),
		MaxChars:    input.MaxChars,
	}

	if text == "" {
		result.Empty = true
		result.Valid = false
	}
	if input.MaxChars > 0 && result.ActualChars > input.MaxChars {
		result.TooLarge = true
		result.Valid = false
	}

	return result
}
