package datastore

import (
	"database/sql"
	"time"
)

// ToNullString wraps a string as sql.NullString; an empty string maps to NULL.
func ToNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ToNullTime wraps a time as sql.NullTime; the zero time maps to NULL.
func ToNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// ToNullInt64 wraps an int64 as sql.NullInt64; negative values map to NULL.
// Zero stays valid: a sub-millisecond elapsed time is a real measurement.
func ToNullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n >= 0}
}
