package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/record"
)

const moleculeColumns = `
	id, name_raw, name_norm, smiles_raw, smiles_norm,
	atom_count, bond_count, ring_count, aromatic_rings, non_aromatic_rings,
	charged, amino_acid, graph_json, batch_id, created_at, deleted_at`

// Insert stores a new molecule record. q may be a *sql.DB or a *sql.Tx.
func Insert(ctx context.Context, q Execer, r *record.Record) error {
	graphJSON, err := json.Marshal(r.Graph)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO molecules (` + moleculeColumns + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = q.ExecContext(ctx, query,
		r.ID, r.NameRaw, r.NameNorm, r.SmilesRaw, r.SmilesNorm,
		r.AtomCount, r.BondCount, r.Rings.Total, r.Rings.Aromatic, r.Rings.NonAromatic,
		boolToInt(r.Charged), boolToInt(r.AminoAcid), string(graphJSON),
		toNullString(r.BatchID), r.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves a molecule by its ULID.
// If includeDeleted is false, soft-deleted molecules are excluded.
func GetByID(ctx context.Context, db *sql.DB, id string, includeDeleted bool) (*record.Record, error) {
	query := `SELECT ` + moleculeColumns + ` FROM molecules WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	r, err := scanRecord(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("molecule", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// GetByName retrieves the most recently stored molecule with the given
// normalized name. Names are not unique; the newest active record wins.
func GetByName(ctx context.Context, db *sql.DB, nameNorm string, includeDeleted bool) (*record.Record, error) {
	query := `SELECT ` + moleculeColumns + ` FROM molecules WHERE name_norm = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL ORDER BY created_at DESC, id DESC LIMIT 1"
	} else {
		// Prefer an active record; otherwise the most recently created deleted one.
		query += " ORDER BY (deleted_at IS NULL) DESC, created_at DESC, id DESC LIMIT 1"
	}

	r, err := scanRecord(db.QueryRowContext(ctx, query, nameNorm))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("molecule", nameNorm)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListFilter narrows list and export queries.
type ListFilter struct {
	BatchID        *string
	IncludeDeleted bool
}

func (f ListFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if !f.IncludeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if f.BatchID != nil {
		clauses = append(clauses, "batch_id = ?")
		args = append(args, *f.BatchID)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List returns molecule summaries newest first, plus the total matching count.
func List(ctx context.Context, db *sql.DB, filter ListFilter, limit, offset int) ([]record.Summary, int, error) {
	where, args := filter.where()

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM molecules`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + moleculeColumns + ` FROM molecules` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []record.Summary
	for rows.Next() {
		r, err := ScanRecordFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, r.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// StreamForExport returns rows for every matching molecule in creation order.
// The caller must close the rows and scan them with ScanRecordFromRows.
func StreamForExport(ctx context.Context, db *sql.DB, filter ListFilter) (*sql.Rows, error) {
	where, args := filter.where()
	query := `SELECT ` + moleculeColumns + ` FROM molecules` + where + ` ORDER BY created_at ASC, id ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// SoftDelete marks a molecule as deleted by setting deleted_at.
func SoftDelete(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE molecules SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().Unix(), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("molecule", id)
	}

	return nil
}

// PurgeDeleted permanently removes soft-deleted molecules.
// If olderThanDays is set, only molecules deleted before that cutoff are removed.
func PurgeDeleted(ctx context.Context, db *sql.DB, olderThanDays *int) (int, error) {
	query := `DELETE FROM molecules WHERE deleted_at IS NOT NULL`
	var args []any
	if olderThanDays != nil {
		cutoff := time.Now().Add(-time.Duration(*olderThanDays) * 24 * time.Hour).Unix()
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*record.Record, error) {
	return scanInto(row)
}

// ScanRecordFromRows scans the current row of a StreamForExport result.
func ScanRecordFromRows(rows *sql.Rows) (*record.Record, error) {
	return scanInto(rows)
}

func scanInto(s scanner) (*record.Record, error) {
	var (
		r         record.Record
		charged   int
		aminoAcid int
		graphJSON string
		batchID   sql.NullString
		deletedAt sql.NullInt64
	)

	err := s.Scan(
		&r.ID, &r.NameRaw, &r.NameNorm, &r.SmilesRaw, &r.SmilesNorm,
		&r.AtomCount, &r.BondCount, &r.Rings.Total, &r.Rings.Aromatic, &r.Rings.NonAromatic,
		&charged, &aminoAcid, &graphJSON, &batchID, &r.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Charged = charged != 0
	r.AminoAcid = aminoAcid != 0
	r.BatchID = fromNullString(batchID)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	if err := json.Unmarshal([]byte(graphJSON), &r.Graph); err != nil {
		return nil, err
	}

	return &r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
