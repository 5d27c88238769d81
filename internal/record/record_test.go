package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/molgraph/internal/smiles"
)

func decode(t *testing.T, s, name string) *smiles.Molecule {
	t.Helper()
	m, err := smiles.Decode(s, name)
	require.NoError(t, err)
	return m
}

func TestFromMolecule(t *testing.T) {
	m := decode(t, "[NH3+]CC(=O)O", "  Glycine ")
	r := FromMolecule(m, "[NH3+]CC(=O)O")

	require.Equal(t, "  Glycine ", r.NameRaw)
	require.Equal(t, "glycine", r.NameNorm)
	require.Equal(t, "[NH3+]CC(=O)O", r.SmilesRaw)
	require.Equal(t, "NCC(=O)O", r.SmilesNorm)
	require.Equal(t, 5, r.AtomCount)
	require.Equal(t, 4, r.BondCount)
	require.True(t, r.Charged)
	require.True(t, r.AminoAcid)
	require.Equal(t, m.Bonds, r.Graph.Bonds)
	require.Equal(t, []int{4}, r.Graph.AlcoholIndices)
}

func TestRecord_MoleculeRoundTrip(t *testing.T) {
	m := decode(t, "c1ccccc1C2CCCC2", "phenylcyclopentane")
	r := FromMolecule(m, "c1ccccc1C2CCCC2")

	require.Equal(t, m, r.Molecule())
}

func TestRecord_ToSummary(t *testing.T) {
	batch := "01BATCH"
	r := FromMolecule(decode(t, "CO", "methanol"), "CO")
	r.ID = "01ID"
	r.BatchID = &batch
	r.CreatedAt = 1700000000

	s := r.ToSummary()
	require.Equal(t, "01ID", s.ID)
	require.Equal(t, "methanol", s.Name)
	require.Equal(t, "CO", s.SmilesNorm)
	require.Equal(t, &batch, s.BatchID)
	require.Equal(t, int64(1700000000), s.CreatedAt)
}

func TestRecord_ReportRow(t *testing.T) {
	r := FromMolecule(decode(t, "O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O", "ABEGOH"),
		"O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O")

	row := r.ReportRow()
	require.Len(t, row, len(ReportHeader))
	require.Equal(t, []string{
		"ABEGOH",
		"O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O",
		"0", "2", "2", "No", "No", "18",
	}, row[:8])
}

func TestReport(t *testing.T) {
	r := FromMolecule(decode(t, "c1ccccc1", "benzene"), "c1ccccc1")
	r.ID = "01ID"

	md := Report(r)
	require.True(t, strings.HasPrefix(md, "# benzene\n"))
	require.Contains(t, md, "`C1CCCCC1`")
	require.Contains(t, md, "Input: `c1ccccc1`")
	require.Contains(t, md, "| 1 | 0 | 1 |")
	require.Contains(t, md, "| 0 | `C` | `c`5, `C`1 |")
	require.Contains(t, md, "- Cyclic: 0, 1, 2, 3, 4, 5")
	require.Contains(t, md, "- Alcohol: none")
}

func TestReport_FallsBackToID(t *testing.T) {
	r := FromMolecule(decode(t, "CC", ""), "CC")
	r.ID = "01ID"

	require.True(t, strings.HasPrefix(Report(r), "# 01ID\n"))
	require.NotContains(t, Report(r), "Input:")
}
