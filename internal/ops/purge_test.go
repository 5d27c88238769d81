package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/molgraph/internal/errors"
)

func TestPurge(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	keep := storeTestMolecule(t, database, "keep", "CC")
	for _, in := range []string{"CO", "CCO"} {
		id := storeTestMolecule(t, database, in, in)
		if _, err := Delete(ctx, database, DeleteInput{ID: id}); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}

	// Freshly deleted molecules are younger than a day
	out, err := Purge(ctx, database, PurgeInput{OlderThanDays: intPtr(1)})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 0 || out.Message != "No deleted molecules to purge" {
		t.Errorf("Purge(1 day) = %+v", out)
	}

	out, err = Purge(ctx, database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 2 || out.Message != "Permanently deleted 2 molecules" {
		t.Errorf("Purge = %+v", out)
	}

	if _, err := Fetch(ctx, database, FetchInput{ID: keep}); err != nil {
		t.Errorf("active molecule should survive: %v", err)
	}
}

func TestPurge_NegativeDays(t *testing.T) {
	_, err := Purge(context.Background(), openTestDB(t), PurgeInput{OlderThanDays: intPtr(-1)})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestFormatPurgeMessage(t *testing.T) {
	tests := []struct {
		count int
		days  *int
		want  string
	}{
		{0, nil, "No deleted molecules to purge"},
		{1, nil, "Permanently deleted 1 molecule"},
		{3, intPtr(7), "Permanently deleted 3 molecules (deleted more than 7 days ago)"},
	}
	for _, tc := range tests {
		if got := formatPurgeMessage(tc.count, tc.days); got != tc.want {
			t.Errorf("formatPurgeMessage(%d) = %q, want %q", tc.count, got, tc.want)
		}
	}
}
