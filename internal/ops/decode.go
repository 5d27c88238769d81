package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/record"
	"github.com/hpungsan/molgraph/internal/smiles"
)

// DecodeInput contains parameters for the Decode operation.
type DecodeInput struct {
	SMILES string // required
	Name   string // optional label (refcode, compound name)
	Store  bool   // persist the decoded molecule
}

// DecodeOutput contains the result of the Decode operation.
type DecodeOutput struct {
	ID        string           `json:"id,omitempty"`
	Stored    bool             `json:"stored"`
	Molecule  *smiles.Molecule `json:"molecule"`
	BondCount int              `json:"bond_count"`
}

// Decode lints and decodes a single SMILES string, optionally storing it.
// database may be nil when Store is false.
func Decode(ctx context.Context, database *sql.DB, cfg *config.Config, input DecodeInput) (*DecodeOutput, error) {
	r, err := decodeRecord(cfg, input.SMILES, input.Name)
	if err != nil {
		return nil, err
	}

	output := &DecodeOutput{
		Molecule:  r.Molecule(),
		BondCount: r.BondCount,
	}
	if !input.Store {
		return output, nil
	}
	if database == nil {
		return nil, errors.NewInvalidRequest("store requires a database")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	r.ID = id
	r.CreatedAt = time.Now().Unix()

	if err := db.Insert(ctx, database, r); err != nil {
		return nil, err
	}

	output.ID = id
	output.Stored = true
	return output, nil
}

// decodeRecord applies the size limits and decodes raw into an unsaved record.
func decodeRecord(cfg *config.Config, raw, name string) (*record.Record, error) {
	maxChars := 0
	if cfg != nil {
		maxChars = cfg.SmilesMaxChars
	}

	lint := record.Lint(record.LintInput{Smiles: raw, MaxChars: maxChars})
	if lint.Empty {
		return nil, errors.NewInvalidRequest("smiles is required")
	}
	if lint.TooLarge {
		return nil, errors.NewSmilesTooLarge(lint.MaxChars, lint.ActualChars)
	}

	input := strings.TrimSpace(raw)
	m, err := smiles.Decode(input, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return record.FromMolecule(m, input), nil
}
