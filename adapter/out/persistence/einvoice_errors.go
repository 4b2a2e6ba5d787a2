// Package persistence implements Postgres adapters for the outbound
// repository ports using sqlx.
package persistence

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
)
