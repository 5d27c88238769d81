package ops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/molgraph/internal/config"
	"github.com/hpungsan/molgraph/internal/errors"
)

// TestFullWorkflow exercises the complete molecule lifecycle:
// decode → fetch → list → delete → export → purge → fetch (not found)
func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}

	// 1. Decode and store
	decoded, err := Decode(ctx, database, cfg, DecodeInput{SMILES: "Cc1ccccc1C2CCCC2", Name: "tolyl-cyclopentane", Store: true})
	require.NoError(t, err)
	require.True(t, decoded.Stored)
	id := decoded.ID

	// 2. Fetch by name
	fetched, err := Fetch(ctx, database, FetchInput{Name: "Tolyl-Cyclopentane"})
	require.NoError(t, err)
	require.Equal(t, id, fetched.ID)
	require.Equal(t, 1, fetched.Rings.Aromatic)
	require.Equal(t, 1, fetched.Rings.NonAromatic)

	// 3. List
	list, err := List(ctx, database, ListInput{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	// 4. Delete (soft)
	_, err = Delete(ctx, database, DeleteInput{ID: id})
	require.NoError(t, err)

	list, err = List(ctx, database, ListInput{})
	require.NoError(t, err)
	require.Empty(t, list.Items)

	list, err = List(ctx, database, ListInput{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	require.NotNil(t, list.Items[0].DeletedAt)

	// 5. Export still sees it with include_deleted
	exported, err := Export(ctx, database, cfg, ExportInput{Path: filepath.Join(dir, "all.jsonl"), IncludeDeleted: true})
	require.NoError(t, err)
	require.Equal(t, 1, exported.Count)

	// 6. Purge
	purged, err := Purge(ctx, database, PurgeInput{})
	require.NoError(t, err)
	require.Equal(t, 1, purged.Purged)

	// 7. Gone for good
	_, err = Fetch(ctx, database, FetchInput{ID: id, IncludeDeleted: true})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

// TestBatchWorkflow runs a batch and exports its ring report.
func TestBatchWorkflow(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	path, cfg := writeBatchFile(t, batchCSV)

	out, err := Batch(ctx, database, cfg, nil, BatchInput{Path: path})
	require.NoError(t, err)

	// Unrelated molecule outside the batch
	_, err = Decode(ctx, database, cfg, DecodeInput{SMILES: "CCO", Store: true})
	require.NoError(t, err)

	reportPath := filepath.Join(filepath.Dir(path), "report.csv")
	exported, err := Export(ctx, database, cfg, ExportInput{Path: reportPath, BatchID: &out.BatchID})
	require.NoError(t, err)
	require.Equal(t, out.Decoded, exported.Count)

	lines := readLines(t, reportPath)
	require.Len(t, lines, out.Decoded+1)
	require.Equal(t, "Refcode,SMILES,Aromatic Rings,Non Aromatic Rings,Rings,AminoAcid,Charged,Atoms,Bonds", lines[0])
}
