package record

import "github.com/hpungsan/molgraph/internal/smiles"

// Summary is a record without its graph. Used by list operations.
type Summary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	SmilesRaw  string            `json:"smiles_raw"`
	SmilesNorm string            `json:"smiles"`
	AtomCount  int               `json:"atom_count"`
	BondCount  int               `json:"bond_count"`
	Rings      smiles.RingCounts `json:"rings"`
	Charged    bool              `json:"charged"`
	AminoAcid  bool              `json:"amino_acid"`
	BatchID    *string           `json:"batch_id,omitempty"`
	CreatedAt  int64             `json:"created_at"`
	DeletedAt  *int64            `json:"deleted_at,omitempty"`
}

// ToSummary strips the graph from a record.
func (r *Record) ToSummary() Summary {
	return Summary{
		ID:         r.ID,
		Name:       r.NameRaw,
		SmilesRaw:  r.SmilesRaw,
		SmilesNorm: r.SmilesNorm,
		AtomCount:  r.AtomCount,
		BondCount:  r.BondCount,
		Rings:      r.Rings,
		Charged:    r.Charged,
		AminoAcid:  r.AminoAcid,
		BatchID:    r.BatchID,
		CreatedAt:  r.CreatedAt,
		DeletedAt:  r.DeletedAt,
	}
}
