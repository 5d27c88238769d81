package errors

import (
	"fmt"
	"testing"
)

func TestMolError_Error(t *testing.T) {
	err := &MolError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "molecule not found",
	}

	expected := "NOT_FOUND: molecule not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewAmbiguousAddressing(t *testing.T) {
	err := NewAmbiguousAddressing()

	if err.Code != ErrAmbiguousAddressing {
		t.Errorf("Code = %q, want %q", err.Code, ErrAmbiguousAddressing)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("smiles is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "smiles is required" {
		t.Errorf("Message = %q, want %q", err.Message, "smiles is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("molecule", "abegoh")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Message != "molecule not found: abegoh" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Details["identifier"] != "abegoh" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "abegoh")
	}
}

func TestNewFileNotFound(t *testing.T) {
	err := NewFileNotFound("/tmp/smiles.csv")

	if err.Code != ErrFileNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrFileNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["path"] != "/tmp/smiles.csv" {
		t.Errorf("Details[path] = %v", err.Details["path"])
	}
}

func TestNewSmilesTooLarge(t *testing.T) {
	err := NewSmilesTooLarge(4096, 5000)

	if err.Code != ErrSmilesTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrSmilesTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_chars"] != 4096 {
		t.Errorf("Details[max_chars] = %v, want 4096", err.Details["max_chars"])
	}
	if err.Details["actual_chars"] != 5000 {
		t.Errorf("Details[actual_chars] = %v, want 5000", err.Details["actual_chars"])
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      *MolError
		code     ErrorCode
		position int
	}{
		{"unsupported element", NewUnsupportedElement("@", 3), ErrUnsupportedElement, 3},
		{"malformed bracket", NewMalformedBracket(0), ErrMalformedBracket, 0},
		{"unclosed ring", NewUnclosedRing("1", 1), ErrUnclosedRing, 1},
		{"malformed smiles", NewMalformedSmiles("dangling bond", 4), ErrMalformedSmiles, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != 422 {
				t.Errorf("Status = %d, want 422", tt.err.Status)
			}
			if tt.err.Details["position"] != tt.position {
				t.Errorf("Details[position] = %v, want %d", tt.err.Details["position"], tt.position)
			}
		})
	}
}

func TestNewUnsupportedElement_Symbol(t *testing.T) {
	err := NewUnsupportedElement("H", 2)
	if err.Details["symbol"] != "H" {
		t.Errorf("Details[symbol] = %v, want %q", err.Details["symbol"], "H")
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled(fmt.Errorf("context canceled"))

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Status != 499 {
		t.Errorf("Status = %d, want 499", err.Status)
	}
	if err.Message != "context canceled" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("molecule", "test")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("molecule", "test")
		if Is(err, ErrUnclosedRing) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-MolError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-MolError")
		}
	})

	t.Run("wrapped MolError", func(t *testing.T) {
		inner := NewUnclosedRing("2", 5)
		wrapped := fmt.Errorf("row 3: %w", inner)
		if !Is(wrapped, ErrUnclosedRing) {
			t.Error("Is() = false, want true for wrapped MolError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped MolError")
		}
	})
}

func TestAs(t *testing.T) {
	inner := NewMalformedBracket(4)
	got, ok := As(fmt.Errorf("line 2: %w", inner))
	if !ok || got != inner {
		t.Errorf("As(wrapped) = %v, %v; want inner error", got, ok)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As(plain) = true, want false")
	}
	if _, ok := As(nil); ok {
		t.Error("As(nil) = true, want false")
	}
}
