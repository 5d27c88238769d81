package smiles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexAtoms_ChargeGroups(t *testing.T) {
	s := "C[N+](=O)[O-]"
	b, err := validate(s)
	require.NoError(t, err)

	atoms, alcohols, err := indexAtoms(s, b)
	require.NoError(t, err)
	require.Equal(t, []Atom{
		{Index: 0, Symbol: "C"},
		{Index: 1, Symbol: "[N+]"},
		{Index: 2, Symbol: "O"},
		{Index: 3, Symbol: "[O-]"},
	}, atoms)
	require.Empty(t, alcohols)
}

func TestIsAlcohol(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"terminal after carbon", "CO", []int{1}},
		{"terminal after ring digit", "C1CC1O", []int{3}},
		{"terminal after branch", "CC(=O)O", []int{3}},
		{"leading before carbon", "OCC", []int{0}},
		{"lone branch", "CC(O)C", []int{2}},
		{"closing a branch", "C(CO)C", []int{2}},
		{"ether", "CCOC", nil},
		{"carbonyl", "O=CC", nil},
		{"double-bonded in branch", "CC(=O)C", nil},
		{"charged oxygen", "C[O-]", nil},
		{"lone oxygen", "O", nil},
		{"ring oxygen", "C1CCOC1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := strings.ToUpper(tt.input)
			b, err := validate(s)
			require.NoError(t, err)

			_, alcohols, err := indexAtoms(s, b)
			require.NoError(t, err)
			require.Equal(t, tt.want, alcohols)
		})
	}
}
