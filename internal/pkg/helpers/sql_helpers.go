// Package helpers holds small conversion utilities shared by the repositories
package helpers

import "database/sql"

// NullString converts a string to sql.NullString, treating "" as NULL.
func NullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringPtr converts a string pointer to sql.NullString, treating
// nil as NULL.
func NullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullInt64Ptr converts an int64 pointer to sql.NullInt64, treating nil
// as NULL.
func NullInt64Ptr(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// StringOrEmpty unwraps a NullString back into a plain string.
func StringOrEmpty(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// Int64PtrOrNil unwraps a NullInt64 back into an int64 pointer.
func Int64PtrOrNil(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
