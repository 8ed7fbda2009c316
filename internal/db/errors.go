// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"database/sql"
	"errors"
	"strings"
)

// Typed errors let callers branch on failure kind instead of treating every
// failure as "no data".
var (
	// ErrNotFound is returned when a query matched no rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (e.g. a taken email).
	ErrDuplicate = errors.New("duplicate record")
	// ErrConnection is returned when the backend cannot be reached.
	ErrConnection = errors.New("database connection failed")
)

// MapDBError inspects low-level driver errors and maps common constraint
// and connectivity failures to package-level sentinel errors. This is a
// conservative, string-based mapping to avoid importing SQL driver packages
// into this package file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry (1062), Postgres unique violation (23505),
	// SQLite unique constraint.
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	if strings.Contains(le, "connection refused") || strings.Contains(le, "no such host") ||
		strings.Contains(le, "connection reset") || strings.Contains(le, "i/o timeout") ||
		strings.Contains(le, "bad connection") {
		return ErrConnection
	}
	return err
}
