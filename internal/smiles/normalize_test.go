package smiles

import (
	"testing"

	"github.com/hpungsan/molgraph/internal/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain chain unchanged",
			input: "CCO",
			want:  "CCO",
		},
		{
			name:  "ammonium group",
			input: "[NH3+]CC(=O)O",
			want:  "NCC(=O)O",
		},
		{
			name:  "aromatic nh keeps case",
			input: "c1cc[nH]c1",
			want:  "c1ccnc1",
		},
		{
			name:  "multiple hydrogen groups",
			input: "[NH3+][C@@H](C)C(=O)[OH]",
			want:  "NC(C)C(=O)O",
		},
		{
			name:  "two-letter elements",
			input: "ClCCBr",
			want:  "ZCCX",
		},
		{
			name:  "two-letter element inside hydrogen group",
			input: "C[BrH+]",
			want:  "CX",
		},
		{
			name:  "charge group without hydrogen kept",
			input: "C[N+](=O)[O-]",
			want:  "C[N+](=O)[O-]",
		},
		{
			name:  "trailing chlorine",
			input: "CCl",
			want:  "CZ",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O",
		"[NH3+]CC(=O)O",
		"c1cc[nH]c1",
		"ClC(Br)C",
		"C[N+](=O)[O-]",
	}

	for _, input := range inputs {
		once, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", input, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalize_UnterminatedHydrogenGroup(t *testing.T) {
	_, err := Normalize("C[NH3+")
	if !errors.Is(err, errors.ErrMalformedBracket) {
		t.Fatalf("Normalize error = %v, want MALFORMED_BRACKET", err)
	}
}

func TestNormalize_HydrogenOutsideBracketUntouched(t *testing.T) {
	got, err := Normalize("CH4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "CH4" {
		t.Errorf("Normalize(%q) = %q, want unchanged", "CH4", got)
	}
}
