package record

import (
	"strconv"

	"github.com/hpungsan/molgraph/internal/smiles"
)

// ExportRecord is one line of a JSONL export.
type ExportRecord struct {
	// Header detection field - true only for header line
	MolgraphExport bool `json:"_molgraph_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	ID         string            `json:"id"`
	NameRaw    string            `json:"name"`
	SmilesRaw  string            `json:"smiles_raw"`
	SmilesNorm string            `json:"smiles"`
	AtomCount  int               `json:"atom_count"`
	BondCount  int               `json:"bond_count"`
	Rings      smiles.RingCounts `json:"rings"`
	Charged    bool              `json:"charged"`
	AminoAcid  bool              `json:"amino_acid"`
	Graph      *Graph            `json:"graph,omitempty"`
	BatchID    *string           `json:"batch_id"`
	CreatedAt  int64             `json:"created_at"`
	DeletedAt  *int64            `json:"deleted_at"`
}

// ToExportRecord converts a record to its JSONL export form.
func (r *Record) ToExportRecord() *ExportRecord {
	graph := r.Graph
	return &ExportRecord{
		ID:         r.ID,
		NameRaw:    r.NameRaw,
		SmilesRaw:  r.SmilesRaw,
		SmilesNorm: r.SmilesNorm,
		AtomCount:  r.AtomCount,
		BondCount:  r.BondCount,
		Rings:      r.Rings,
		Charged:    r.Charged,
		AminoAcid:  r.AminoAcid,
		Graph:      &graph,
		BatchID:    r.BatchID,
		CreatedAt:  r.CreatedAt,
		DeletedAt:  r.DeletedAt,
	}
}

// ReportHeader is the column layout of the tabular report.
var ReportHeader = []string{
	"Refcode",
	"SMILES",
	"Aromatic Rings",
	"Non Aromatic Rings",
	"Rings",
	"AminoAcid",
	"Charged",
	"Atoms",
	"Bonds",
}

// ReportRow renders a record as one row of the tabular report.
// SMILES is the raw input so the report can be matched back to the source file.
func (r *Record) ReportRow() []string {
	return []string{
		r.NameRaw,
		r.SmilesRaw,
		strconv.Itoa(r.Rings.Aromatic),
		strconv.Itoa(r.Rings.NonAromatic),
		strconv.Itoa(r.Rings.Total),
		yesNo(r.AminoAcid),
		yesNo(r.Charged),
		strconv.Itoa(r.AtomCount),
		strconv.Itoa(r.BondCount),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
