package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/record"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	Name           string
	IncludeDeleted bool
	IncludeGraph   *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	record.Summary
	Graph  *record.Graph `json:"graph,omitempty"`
	Report string        `json:"-"`
}

// Fetch retrieves a stored molecule by ID or name.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	var r *record.Record
	if addr.ByID {
		r, err = db.GetByID(ctx, database, addr.ID, input.IncludeDeleted)
	} else {
		r, err = db.GetByName(ctx, database, addr.Name, input.IncludeDeleted)
	}
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Summary: r.ToSummary(),
		Report:  record.Report(r),
	}

	includeGraph := true
	if input.IncludeGraph != nil {
		includeGraph = *input.IncludeGraph
	}
	if includeGraph {
		graph := r.Graph
		output.Graph = &graph
	}

	return output, nil
}
