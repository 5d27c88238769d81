// Package record holds the persisted form of decoded molecules and the
// views derived from it: summaries, export lines, and reports.
package record

import (
	"github.com/hpungsan/molgraph/internal/smiles"
)

// Record is a decoded molecule as stored in the molecules table.
type Record struct {
	// ID is a ULID that uniquely identifies this record
	ID string

	// NameRaw is the identifier as provided (refcode, compound name)
	NameRaw string

	// NameNorm is the normalized name used for lookups
	NameNorm string

	// SmilesRaw is the input string exactly as received
	SmilesRaw string

	// SmilesNorm is the normalized, upper-cased SMILES
	SmilesNorm string

	AtomCount int
	BondCount int
	Rings     smiles.RingCounts
	Charged   bool
	AminoAcid bool

	// Graph is the atom/bond graph and index sets (stored as JSON in DB)
	Graph Graph

	// BatchID links records produced by a batch run (nullable)
	BatchID *string

	// CreatedAt is the Unix timestamp when the record was stored
	CreatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Graph is the structural part of a decoded molecule.
type Graph struct {
	Atoms           []smiles.Atom   `json:"atoms"`
	Bonds           [][]smiles.Atom `json:"bonds"`
	CyclicIndices   []int           `json:"cyclic_indices"`
	AromaticIndices []int           `json:"aromatic_indices"`
	AlcoholIndices  []int           `json:"alcohol_indices"`
}

// FromMolecule builds a Record from a decoded molecule. ID, CreatedAt and
// BatchID are left for the caller.
func FromMolecule(m *smiles.Molecule, raw string) *Record {
	return &Record{
		NameRaw:    m.Name,
		NameNorm:   Normalize(m.Name),
		SmilesRaw:  raw,
		SmilesNorm: m.SMILES,
		AtomCount:  m.AtomCount(),
		BondCount:  m.BondCount(),
		Rings:      m.Rings,
		Charged:    m.Charged,
		AminoAcid:  m.AminoAcid,
		Graph: Graph{
			Atoms:           m.Atoms,
			Bonds:           m.Bonds,
			CyclicIndices:   m.CyclicIndices,
			AromaticIndices: m.AromaticIndices,
			AlcoholIndices:  m.AlcoholIndices,
		},
	}
}

// Molecule rebuilds the decoded molecule view from the stored record.
func (r *Record) Molecule() *smiles.Molecule {
	return &smiles.Molecule{
		Name:            r.NameRaw,
		SMILES:          r.SmilesNorm,
		Atoms:           r.Graph.Atoms,
		Bonds:           r.Graph.Bonds,
		Rings:           r.Rings,
		CyclicIndices:   r.Graph.CyclicIndices,
		AromaticIndices: r.Graph.AromaticIndices,
		AlcoholIndices:  r.Graph.AlcoholIndices,
		Charged:         r.Charged,
		AminoAcid:       r.AminoAcid,
	}
}
