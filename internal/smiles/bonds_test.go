package smiles

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/molgraph/internal/errors"
)

func bondsOf(t *testing.T, input string) [][]Atom {
	t.Helper()
	m, err := Decode(input, "t")
	require.NoError(t, err)
	return m.Bonds
}

func TestBuildBonds_CarboxylicAcid(t *testing.T) {
	bonds := bondsOf(t, "[NH3+]CC(=O)O")

	require.Equal(t, [][]Atom{
		{{1, "C"}},
		{{0, "N"}, {2, "C"}},
		{{1, "C"}, {3, "=O"}, {4, "O"}},
		{{2, "=C"}},
		{{2, "C"}},
	}, bonds)
}

func TestBuildBonds_SiblingBranches(t *testing.T) {
	bonds := bondsOf(t, "C(N)(O)S")

	require.Equal(t, [][]Atom{
		{{1, "N"}, {2, "O"}, {3, "S"}},
		{{0, "C"}},
		{{0, "C"}},
		{{0, "C"}},
	}, bonds)
}

func TestBuildBonds_NestedBranchOnlyFirstAtom(t *testing.T) {
	// C(CC)O: the branch contributes only its first atom to C0.
	bonds := bondsOf(t, "C(CC)O")

	require.Equal(t, []Atom{{1, "C"}, {3, "O"}}, bonds[0])
	require.Equal(t, []Atom{{0, "C"}, {2, "C"}}, bonds[1])
	require.Equal(t, []Atom{{1, "C"}}, bonds[2])
	require.Equal(t, []Atom{{0, "C"}}, bonds[3])
}

func TestBuildBonds_RingClosure(t *testing.T) {
	bonds := bondsOf(t, "C1CC1")

	require.Equal(t, [][]Atom{
		{{2, "C"}, {1, "C"}},
		{{0, "C"}, {2, "C"}},
		{{1, "C"}, {0, "C"}},
	}, bonds)
}

func TestBuildBonds_RingPartnerKeepsCase(t *testing.T) {
	bonds := bondsOf(t, "c1ccccc1")

	require.Equal(t, []Atom{{5, "c"}, {1, "C"}}, bonds[0])
	require.Equal(t, []Atom{{4, "C"}, {0, "c"}}, bonds[5])
}

func TestBuildBonds_ChargeGroups(t *testing.T) {
	bonds := bondsOf(t, "C[N+](=O)[O-]")

	require.Equal(t, [][]Atom{
		{{1, "[N+]"}},
		{{0, "C"}, {2, "=O"}, {3, "[O-]"}},
		{{1, "=[N+]"}},
		{{1, "[N+]"}},
	}, bonds)
}

func TestBuildBonds_BondIntoChargeGroup(t *testing.T) {
	bonds := bondsOf(t, "C=[N+]C")

	require.Equal(t, []Atom{{1, "=[N+]"}}, bonds[0])
	require.Equal(t, []Atom{{0, "=C"}, {2, "C"}}, bonds[1])
}

func TestBuildBonds_DanglingBond(t *testing.T) {
	_, err := Decode("CC=", "t")
	require.True(t, errors.Is(err, errors.ErrMalformedSmiles))
}

func TestBondWalker_LeftAtStart(t *testing.T) {
	w := bondWalker{s: "CC", rings: &ringTable{}}
	_, ok, err := w.left(0, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBondWalker_RightPastEnd(t *testing.T) {
	w := bondWalker{s: "CC", rings: &ringTable{}}
	got, err := w.right(1, 1)
	require.NoError(t, err)
	require.Empty(t, got)
}
