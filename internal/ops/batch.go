package ops

import (
	"context"
	"database/sql"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/db"
	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/logging"
	"github.com/hpungsan/molgraph/internal/record"
)

// Batch input columns. Extra columns are ignored.
const (
	ColumnSmiles = "smiles"
	ColumnName   = "name"
)

// ProgressFunc is called after each row is decoded. It may be called from
// several goroutines at once.
type ProgressFunc func(done, total int)

// BatchInput contains parameters for the Batch operation.
type BatchInput struct {
	Path     string       // required, CSV with a smiles,name header
	Workers  int          // default: cfg.Workers
	Progress ProgressFunc // optional
}

// BatchOutput contains the result of the Batch operation.
type BatchOutput struct {
	BatchID  string           `json:"batch_id"`
	Source   string           `json:"source"`
	Total    int              `json:"total"`
	Decoded  int              `json:"decoded"`
	Failed   int              `json:"failed"`
	Failures []record.Failure `json:"failures"`
}

// batchRow is one data row of the input file.
type batchRow struct {
	line   int
	smiles string
	name   string
	// parseErr is set when the CSV reader rejected the row
	parseErr error
}

// batchResult is the decode outcome for one row.
type batchResult struct {
	rec *record.Record
	err error
}

// Batch decodes every row of a CSV file concurrently and stores the results
// under a new batch. Rows that fail to decode are recorded as failures and
// never abort the run; cancelling ctx does.
func Batch(ctx context.Context, database *sql.DB, cfg *config.Config, log *zap.SugaredLogger, input BatchInput) (*BatchOutput, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logging.Nop()
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	rows, err := readBatchFile(input.Path)
	if err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	batchID, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	log = log.With("batch_id", batchID)
	log.Infow("batch started", "source", input.Path, "rows", len(rows), "workers", workers)

	results, err := decodeRows(ctx, cfg, rows, workers, input.Progress)
	if err != nil {
		log.Warnw("batch cancelled", "error", err)
		return nil, errors.NewCancelled(err)
	}

	output := &BatchOutput{
		BatchID:  batchID,
		Source:   input.Path,
		Total:    len(rows),
		Failures: []record.Failure{},
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	started := time.Now().Unix()
	batch := &record.Batch{ID: batchID, Source: input.Path, Total: len(rows), StartedAt: started}
	if err := db.InsertBatch(ctx, tx, batch); err != nil {
		return nil, err
	}

	for i, res := range results {
		row := rows[i]
		if res.err != nil {
			f := failureFor(batchID, row, res.err)
			log.Warnw("decode failed", "line", f.Line, "name", f.Name, "code", f.Code, "message", f.Message)
			if err := db.InsertFailure(ctx, tx, &f); err != nil {
				return nil, err
			}
			output.Failures = append(output.Failures, f)
			continue
		}

		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		res.rec.ID = id
		res.rec.BatchID = &batchID
		res.rec.CreatedAt = started
		if err := db.Insert(ctx, tx, res.rec); err != nil {
			return nil, err
		}
		log.Debugw("decoded", "line", row.line, "name", row.name, "atoms", res.rec.AtomCount, "rings", res.rec.Rings.Total)
		output.Decoded++
	}
	output.Failed = len(output.Failures)

	finished := time.Now().Unix()
	batch.Decoded, batch.Failed, batch.FinishedAt = output.Decoded, output.Failed, &finished
	if err := db.FinishBatch(ctx, tx, batch); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	log.Infow("batch finished", "total", output.Total, "decoded", output.Decoded, "failed", output.Failed)
	return output, nil
}

// decodeRows decodes rows with at most workers goroutines. Results are
// indexed like rows. Only context cancellation is returned as an error.
func decodeRows(ctx context.Context, cfg *config.Config, rows []batchRow, workers int, progress ProgressFunc) ([]batchResult, error) {
	results := make([]batchResult, len(rows))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			row := rows[i]
			if row.parseErr != nil {
				results[i] = batchResult{err: row.parseErr}
			} else {
				rec, err := decodeRecord(cfg, row.smiles, row.name)
				results[i] = batchResult{rec: rec, err: err}
			}

			if progress != nil {
				progress(int(done.Add(1)), len(rows))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// readBatchFile parses the CSV input. Rows the CSV reader rejects are kept
// with parseErr set so they surface as failures.
func readBatchFile(path string) ([]batchRow, error) {
	file, err := openFileNoFollowRead(path)
	if err != nil {
		if molErr, ok := errors.As(err); ok {
			return nil, molErr
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open batch file: %w", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewInvalidRequest("batch file is empty")
	}
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid batch header: %v", err))
	}

	smilesCol, nameCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case ColumnSmiles:
			smilesCol = i
		case ColumnName:
			nameCol = i
		}
	}
	if smilesCol < 0 {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("batch header must include a %q column", ColumnSmiles))
	}

	var rows []batchRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !stderrors.As(err, &parseErr) {
				return nil, errors.NewInternal(fmt.Errorf("failed to read batch file: %w", err))
			}
			rows = append(rows, batchRow{
				line:     parseErr.StartLine,
				parseErr: errors.NewInvalidRequest(parseErr.Err.Error()),
			})
			continue
		}

		line, _ := reader.FieldPos(0)
		row := batchRow{line: line, smiles: field(fields, smilesCol), name: field(fields, nameCol)}
		if row.smiles == "" && row.name == "" {
			// blank line
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// failureFor converts a decode error into a stored failure.
func failureFor(batchID string, row batchRow, err error) record.Failure {
	f := record.Failure{
		BatchID: batchID,
		Line:    row.line,
		Name:    row.name,
		Smiles:  row.smiles,
		Code:    string(errors.ErrInternal),
		Message: err.Error(),
	}
	if molErr, ok := errors.As(err); ok {
		f.Code = string(molErr.Code)
		f.Message = molErr.Message
	}
	return f
}

// FailuresInput contains parameters for the Failures operation.
type FailuresInput struct {
	BatchID string // required
}

// FailuresOutput contains the result of the Failures operation.
type FailuresOutput struct {
	Batch    *record.Batch    `json:"batch"`
	Failures []record.Failure `json:"failures"`
}

// Failures returns a batch and the rows it could not decode.
func Failures(ctx context.Context, database *sql.DB, input FailuresInput) (*FailuresOutput, error) {
	batchID := strings.TrimSpace(input.BatchID)
	if batchID == "" {
		return nil, errors.NewInvalidRequest("batch_id is required")
	}

	batch, err := db.GetBatch(ctx, database, batchID)
	if err != nil {
		return nil, err
	}
	failures, err := db.ListFailures(ctx, database, batchID)
	if err != nil {
		return nil, err
	}

	return &FailuresOutput{Batch: batch, Failures: failures}, nil
}
