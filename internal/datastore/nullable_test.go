package datastore

import (
	"testing"
	"time"
)

func TestToNullString(t *testing.T) {
	if v := ToNullString(""); v.Valid {
		t.Error("empty string should map to NULL")
	}
	if v := ToNullString("x"); !v.Valid || v.String != "x" {
		t.Errorf("unexpected wrapper %+v", v)
	}
}

func TestToNullTime(t *testing.T) {
	if v := ToNullTime(time.Time{}); v.Valid {
		t.Error("zero time should map to NULL")
	}
	now := time.Now()
	if v := ToNullTime(now); !v.Valid || !v.Time.Equal(now) {
		t.Errorf("unexpected wrapper %+v", v)
	}
}

func TestToNullInt64(t *testing.T) {
	// A zero elapsed time is a legitimate measurement and must be stored.
	if v := ToNullInt64(0); !v.Valid || v.Int64 != 0 {
		t.Errorf("zero should stay valid, got %+v", v)
	}
	if v := ToNullInt64(42); !v.Valid || v.Int64 != 42 {
		t.Errorf("unexpected wrapper %+v", v)
	}
	if v := ToNullInt64(-1); v.Valid {
		t.Error("negative values should map to NULL")
	}
}
