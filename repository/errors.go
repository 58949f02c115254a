package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrConstraintViolation is returned when an account would have neither phone nor email.
	ErrConstraintViolation = errors.New("phone or email is required")
	// ErrValidation is returned for caller input rejected before any query runs.
	ErrValidation = errors.New("validation failed")
)

// mysqlCheckConstraintViolated is ER_CHECK_CONSTRAINT_VIOLATED.
const mysqlCheckConstraintViolated = 3819

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// classify maps engine-level constraint failures onto ErrConstraintViolation and
// wraps everything else as a storage fault.
func classify(op string, err error) error {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return fmt.Errorf("%s: %w", op, ErrConstraintViolation)
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlCheckConstraintViolated {
		return fmt.Errorf("%s: %w", op, ErrConstraintViolation)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
