package store

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible
	// to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrUnknownCategory is returned by catalog import when a good
	// references a category external id that was never imported.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrEmptyBasket is returned when placing an order over an empty basket.
	ErrEmptyBasket = errors.New("basket is empty")
	// ErrRestricted is returned when deleting a row that other rows still
	// reference with protect-on-delete semantics.
	ErrRestricted = errors.New("row is referenced and protected from deletion")
	// ErrDuplicate is returned on unique constraint violations, e.g.
	// registering a username or email twice.
	ErrDuplicate = errors.New("duplicate value")
)

// mapConstraintError converts Postgres constraint violations into the
// package sentinel errors, keeping the violated constraint name.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: %s", ErrRestricted, pqErr.Constraint)
	}
	return err
}
