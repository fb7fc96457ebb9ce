// Package repositories performs parameterized reads and partial updates of
// users and tasks.
package repositories

import (
	"errors"
	"time"

	"taskboard/backend/internal/errs"

	"gorm.io/gorm"
)

// assignment is one column = value pair of a partial update.
type assignment struct {
	column string
	value  interface{}
}

// assignments collects the columns a partial update touches, in the order
// the fields were examined.
type assignments []assignment

func (a *assignments) set(column string, value interface{}) {
	*a = append(*a, assignment{column: column, value: value})
}

func (a assignments) empty() bool {
	return len(a) == 0
}

func (a assignments) columns() []string {
	cols := make([]string, 0, len(a))
	for _, item := range a {
		cols = append(cols, item.column)
	}
	return cols
}

// values returns the pairs in the form gorm turns into a single
// parameterized UPDATE. A nil value is written as NULL.
func (a assignments) values() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for _, item := range a {
		out[item.column] = item.value
	}
	return out
}

var errNoFields = errs.Validation("no fields to update")

func translate(err error, notFound, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.Conflict("user already exists")
	default:
		return errs.Unexpected(err, op)
	}
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c()
}
