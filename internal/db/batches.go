package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/record"
)

// InsertBatch records the start of a batch run.
func InsertBatch(ctx context.Context, q Execer, b *record.Batch) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO batches (id, source, total, decoded, failed, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		b.ID, b.Source, b.Total, b.Decoded, b.Failed, b.StartedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// FinishBatch stores the final counters of a batch run.
func FinishBatch(ctx context.Context, q Execer, b *record.Batch) error {
	result, err := q.ExecContext(ctx,
		`UPDATE batches SET total = ?, decoded = ?, failed = ?, finished_at = ? WHERE id = ?`,
		b.Total, b.Decoded, b.Failed, b.FinishedAt, b.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("batch", b.ID)
	}
	return nil
}

// GetBatch retrieves a batch by ID.
func GetBatch(ctx context.Context, db *sql.DB, id string) (*record.Batch, error) {
	var (
		b          record.Batch
		finishedAt sql.NullInt64
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, source, total, decoded, failed, started_at, finished_at FROM batches WHERE id = ?`, id,
	).Scan(&b.ID, &b.Source, &b.Total, &b.Decoded, &b.Failed, &b.StartedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("batch", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if finishedAt.Valid {
		b.FinishedAt = &finishedAt.Int64
	}
	return &b, nil
}

// InsertFailure records an input row that failed to decode.
func InsertFailure(ctx context.Context, q Execer, f *record.Failure) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO failures (batch_id, line, name, smiles, code, message) VALUES (?, ?, ?, ?, ?, ?)`,
		f.BatchID, f.Line, f.Name, f.Smiles, f.Code, f.Message,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListFailures returns the failures of a batch ordered by input line.
func ListFailures(ctx context.Context, db *sql.DB, batchID string) ([]record.Failure, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT batch_id, line, name, smiles, code, message FROM failures WHERE batch_id = ? ORDER BY line`,
		batchID,
	)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	failures := []record.Failure{}
	for rows.Next() {
		var f record.Failure
		if err := rows.Scan(&f.BatchID, &f.Line, &f.Name, &f.Smiles, &f.Code, &f.Message); err != nil {
			return nil, errors.NewInternal(err)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return failures, nil
}
