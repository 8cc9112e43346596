package repository

import (
	"errors"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/db"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoOpenShift       = errors.New("no open shift")
)

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
