package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/molgraph/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID   string
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete soft-deletes a stored molecule.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	addr, err := ValidateAddress(input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	id := addr.ID
	if !addr.ByID {
		r, err := db.GetByName(ctx, database, addr.Name, false)
		if err != nil {
			return nil, err
		}
		id = r.ID
	}

	// SoftDelete returns ErrNotFound for missing or already-deleted molecules
	if err := db.SoftDelete(ctx, database, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      id,
	}, nil
}
