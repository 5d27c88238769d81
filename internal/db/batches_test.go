package db

import (
	"context"
	"testing"

	"github.com/hpungsan/molgraph/internal/errors"
	"github.com/hpungsan/molgraph/internal/record"
)

func TestBatchLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	b := &record.Batch{ID: "01BATCH", Source: "/data/in.csv", StartedAt: 1000}
	if err := InsertBatch(ctx, db, b); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	got, err := GetBatch(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if got.FinishedAt != nil {
		t.Errorf("FinishedAt = %v, want nil", got.FinishedAt)
	}

	finished := int64(1005)
	b.Total, b.Decoded, b.Failed, b.FinishedAt = 3, 2, 1, &finished
	if err := FinishBatch(ctx, db, b); err != nil {
		t.Fatalf("FinishBatch failed: %v", err)
	}

	got, err = GetBatch(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("GetBatch failed: %v", err)
	}
	if got.Total != 3 || got.Decoded != 2 || got.Failed != 1 {
		t.Errorf("counters = %d/%d/%d, want 3/2/1", got.Total, got.Decoded, got.Failed)
	}
	if got.FinishedAt == nil || *got.FinishedAt != finished {
		t.Errorf("FinishedAt = %v, want %d", got.FinishedAt, finished)
	}
}

func TestGetBatch_NotFound(t *testing.T) {
	_, err := GetBatch(context.Background(), openTestDB(t), "nope")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestFinishBatch_NotFound(t *testing.T) {
	err := FinishBatch(context.Background(), openTestDB(t), &record.Batch{ID: "nope"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestFailures(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := InsertBatch(ctx, db, &record.Batch{ID: "01B", Source: "in.csv", StartedAt: 1}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	failures := []record.Failure{
		{BatchID: "01B", Line: 5, Name: "bad2", Smiles: "C1CC", Code: string(errors.ErrUnclosedRing), Message: "ring 1 not closed"},
		{BatchID: "01B", Line: 2, Name: "bad1", Smiles: "CH4", Code: string(errors.ErrUnsupportedElement), Message: "H"},
	}
	for i := range failures {
		if err := InsertFailure(ctx, db, &failures[i]); err != nil {
			t.Fatalf("InsertFailure failed: %v", err)
		}
	}

	got, err := ListFailures(ctx, db, "01B")
	if err != nil {
		t.Fatalf("ListFailures failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Line != 2 || got[1].Line != 5 {
		t.Errorf("lines = %d,%d, want 2,5", got[0].Line, got[1].Line)
	}

	empty, err := ListFailures(ctx, db, "other")
	if err != nil {
		t.Fatalf("ListFailures failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListFailures(other) = %v, want empty slice", empty)
	}
}

func TestFailure_RequiresBatch(t *testing.T) {
	err := InsertFailure(context.Background(), openTestDB(t), &record.Failure{BatchID: "ghost", Line: 1})
	if !errors.Is(err, errors.ErrInternal) {
		t.Errorf("error = %v, want INTERNAL (foreign key)", err)
	}
}

func TestList_FilterByBatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := InsertBatch(ctx, db, &record.Batch{ID: "01B1", Source: "a.csv", StartedAt: 1}); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	batchID := "01B1"
	in := newTestRecord(t, "01IN", "in", "CC")
	in.BatchID = &batchID
	out := newTestRecord(t, "01OUT", "out", "CCC")
	for _, r := range []*record.Record{in, out} {
		if err := Insert(ctx, db, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	items, total, err := List(ctx, db, ListFilter{BatchID: &batchID}, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != "01IN" {
		t.Errorf("List(batch) = %v (total %d), want only 01IN", items, total)
	}
	if items[0].BatchID == nil || *items[0].BatchID != batchID {
		t.Errorf("BatchID = %v, want %q", items[0].BatchID, batchID)
	}
}
