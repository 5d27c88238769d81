package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/hpungsan/molgraph/internal/errors"
)

func TestFetch_ByIDAndName(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	id := storeTestMolecule(t, database, "ABEGOH", "O=C1NC2C(N(CN2N(=O)=O)N(=O)=O)N1N(=O)=O")

	byID, err := Fetch(ctx, database, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch by id failed: %v", err)
	}
	byName, err := Fetch(ctx, database, FetchInput{Name: "abegoh"})
	if err != nil {
		t.Fatalf("Fetch by name failed: %v", err)
	}

	if byName.ID != id || byID.ID != id {
		t.Errorf("ids = %q/%q, want %q", byID.ID, byName.ID, id)
	}
	if byID.Graph == nil || len(byID.Graph.Atoms) != 18 {
		t.Fatalf("Graph = %+v, want 18 atoms", byID.Graph)
	}
	if !strings.Contains(byID.Report, "# ABEGOH") {
		t.Errorf("Report missing title:\n%s", byID.Report)
	}
}

func TestFetch_WithoutGraph(t *testing.T) {
	database := openTestDB(t)
	id := storeTestMolecule(t, database, "ethanol", "CCO")

	out, err := Fetch(context.Background(), database, FetchInput{ID: id, IncludeGraph: boolPtr(false)})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.Graph != nil {
		t.Errorf("Graph = %+v, want nil", out.Graph)
	}
	if out.AtomCount != 3 {
		t.Errorf("AtomCount = %d, want 3", out.AtomCount)
	}
}

func TestFetch_Errors(t *testing.T) {
	database := openTestDB(t)

	tests := []struct {
		name  string
		input FetchInput
		code  errors.ErrorCode
	}{
		{"missing id", FetchInput{ID: "01NOPE"}, errors.ErrNotFound},
		{"missing name", FetchInput{Name: "nothing"}, errors.ErrNotFound},
		{"ambiguous", FetchInput{ID: "x", Name: "y"}, errors.ErrAmbiguousAddressing},
		{"no address", FetchInput{}, errors.ErrInvalidRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), database, tc.input)
			if !errors.Is(err, tc.code) {
				t.Errorf("error = %v, want %s", err, tc.code)
			}
		})
	}
}
