package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows to read as not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("unexpected not-found classification")
	}
	if isNotFound(nil) {
		t.Fatalf("nil error must not read as not found")
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("") != nil {
		t.Fatalf("empty string should map to nil")
	}
	got := optionalString("espn-401")
	if got == nil || *got != "espn-401" {
		t.Fatalf("unexpected pointer value: %v", got)
	}
}

func TestNullIntRoundTrip(t *testing.T) {
	if nullIntPtr(sql.NullInt64{}) != nil {
		t.Fatalf("invalid null should map to nil")
	}

	score := 27
	null := intPtrToNull(&score)
	if !null.Valid || null.Int64 != 27 {
		t.Fatalf("unexpected null int: %+v", null)
	}
	back := nullIntPtr(null)
	if back == nil || *back != 27 {
		t.Fatalf("unexpected round trip: %v", back)
	}

	if out := intPtrToNull(nil); out.Valid {
		t.Fatalf("nil pointer should map to invalid null")
	}
}
