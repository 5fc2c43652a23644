package base

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNotFound reports whether err is the "no rows" error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
