package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/record"
)

// ExportFormat selects the output layout.
type ExportFormat string

const (
	ExportJSONL ExportFormat = "jsonl" // header line plus one record per line
	ExportCSV   ExportFormat = "csv"   // tabular ring report
)

// ExportSchemaVersion is written to the JSONL header line.
const ExportSchemaVersion = "1.0"

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string       // optional, default: ~/.molgraph/exports/<batch|all>-<timestamp>.<format>
	Format         ExportFormat // default: taken from Path's extension, else jsonl
	BatchID        *string      // optional filter
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string       `json:"path"`
	Format     ExportFormat `json:"format"`
	Count      int          `json:"count"`
	ExportedAt int64        `json:"exported_at"`
}

// recordWriter encodes records in one export format.
type recordWriter interface {
	header(exportedAt int64) error
	write(r *record.Record) error
	flush() error
}

type jsonlWriter struct{ enc *json.Encoder }

func (w jsonlWriter) header(exportedAt int64) error {
	return w.enc.Encode(record.ExportRecord{
		MolgraphExport: true,
		SchemaVersion:  ExportSchemaVersion,
		ExportedAt:     exportedAt,
	})
}

func (w jsonlWriter) write(r *record.Record) error { return w.enc.Encode(r.ToExportRecord()) }
func (w jsonlWriter) flush() error                 { return nil }

type csvWriter struct{ w *csv.Writer }

func (w csvWriter) header(int64) error            { return w.w.Write(record.ReportHeader) }
func (w csvWriter) write(r *record.Record) error { return w.w.Write(r.ReportRow()) }
func (w csvWriter) flush() error {
	w.w.Flush()
	return w.w.Error()
}

func newRecordWriter(format ExportFormat, out io.Writer) recordWriter {
	if format == ExportCSV {
		return csvWriter{w: csv.NewWriter(out)}
	}
	return jsonlWriter{enc: json.NewEncoder(out)}
}

// Export writes stored molecules to a JSONL file or a CSV ring report.
// The file is written to a temp sibling and renamed into place, so an
// existing file survives a failed export.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	batchID := cleanOptionalString(input.BatchID)

	format, err := resolveExportFormat(input.Format, input.Path)
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		if exportPath, err = defaultExportPath(batchID, format, now); err != nil {
			return nil, err
		}
	}
	if filepath.Ext(exportPath) != "."+string(format) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("path extension does not match format %q", format))
	}

	// Default paths are validated too; batch IDs end up in the file name
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(suffix) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	committed := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !committed {
			os.Remove(tempPath)
		}
	}()

	w := newRecordWriter(format, file)
	if err := w.header(now.Unix()); err != nil {
		return nil, errors.NewInternal(err)
	}

	rows, err := db.StreamForExport(ctx, database, db.ListFilter{BatchID: batchID, IncludeDeleted: input.IncludeDeleted})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelled(err)
		}

		r, err := db.ScanRecordFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		if err := w.write(r); err != nil {
			return nil, errors.NewInternal(err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := w.flush(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}
	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if isSymlink(exportPath) {
		return nil, errors.NewInvalidRequest("path must not be a symlink")
	}

	// On Windows os.Rename fails if the destination exists; the existing
	// file is kept rather than risking a non-atomic replace.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; choose a new path or delete the existing file")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	committed = true
	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		Count:      count,
		ExportedAt: now.Unix(),
	}, nil
}

// resolveExportFormat validates an explicit format or infers one from path.
func resolveExportFormat(format ExportFormat, path string) (ExportFormat, error) {
	switch format {
	case ExportJSONL, ExportCSV:
		return format, nil
	case "":
		if filepath.Ext(path) == ".csv" {
			return ExportCSV, nil
		}
		return ExportJSONL, nil
	default:
		return "", errors.NewInvalidRequest("format must be one of: jsonl, csv")
	}
}

// defaultExportPath builds ~/.molgraph/exports/<batch|all>-<timestamp>.<format>.
func defaultExportPath(batchID *string, format ExportFormat, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	name := "all"
	if batchID != nil {
		name = "batch-" + SanitizeForFilename(*batchID)
	}

	filename := fmt.Sprintf("%s-%s.%s", name, now.Format("2006-01-02T150405"), format)
	return filepath.Join(dir, filename), nil
}
