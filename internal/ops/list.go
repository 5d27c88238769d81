package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/record"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	BatchID        *string // optional filter
	Limit          int     // default: 20, max: 100
	Offset         int     // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []record.Summary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List retrieves stored molecule summaries, newest first.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	filter := db.ListFilter{
		BatchID:        cleanOptionalString(input.BatchID),
		IncludeDeleted: input.IncludeDeleted,
	}
	summaries, total, err := db.List(ctx, database, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []record.Summary{}
	}

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(summaries) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
