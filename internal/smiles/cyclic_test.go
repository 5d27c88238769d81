package smiles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackIndices(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantCyclic   []int
		wantAromatic []int
	}{
		{
			name:         "benzene",
			input:        "c1ccccc1",
			wantCyclic:   []int{0, 1, 2, 3, 4, 5},
			wantAromatic: []int{0, 1, 2, 3, 4, 5},
		},
		{
			name:         "toluene methyl is acyclic",
			input:        "Cc1ccccc1",
			wantCyclic:   []int{1, 2, 3, 4, 5, 6},
			wantAromatic: []int{1, 2, 3, 4, 5, 6},
		},
		{
			name:         "branch closed before ring excluded",
			input:        "C1CC(O)CC1",
			wantCyclic:   []int{0, 1, 2, 4, 5},
			wantAromatic: []int{},
		},
		{
			name:         "ring closing inside open branch included",
			input:        "C1CC(CC1)O",
			wantCyclic:   []int{0, 1, 2, 3, 4},
			wantAromatic: []int{},
		},
		{
			name:         "fused nitramine rings",
			input:        "O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O",
			wantCyclic:   []int{1, 2, 3, 4, 5, 6, 7, 14},
			wantAromatic: []int{},
		},
		{
			name:         "acyclic",
			input:        "CCO",
			wantCyclic:   []int{},
			wantAromatic: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustPair(t, tt.input)
			cyclic, aromatic := trackIndices(tt.input, r)
			require.Equal(t, tt.wantCyclic, cyclic)
			require.Equal(t, tt.wantAromatic, aromatic)
		})
	}
}

func TestRingWalk_BranchOutOfOpeningLevel(t *testing.T) {
	// The ring opens inside a branch and closes after it.
	s := "CC(C1)CC1"
	r := mustPair(t, s)
	require.Equal(t, []int{4}, r.opens)

	got := ringWalk(s, 4, r.self[4].Index)
	require.Equal(t, []int{2, 3, 4}, got)
}
