package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleVersion is returned when a preference write carries an outdated version
	ErrStaleVersion = errors.New("stale preference version")
	// ErrNotFound is returned by multi-step writes whose target row disappeared
	ErrNotFound = errors.New("record not found")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
