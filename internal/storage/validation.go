// Package storage persists imported zeta zero tables.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidLimit = errors.New("limit cannot be negative")

	// ErrTableNotFound is returned when a named zero table is not cached.
	ErrTableNotFound = fmt.Errorf("zero table %w", common.ErrNotFound)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateZeroTable checks a table before it is written.
func validateZeroTable(table *model.ZeroTable) error {
	if table == nil {
		return fmt.Errorf("%w: table", ErrNilParameter)
	}
	if len(table.Zeros) == 0 {
		return common.ErrEmptyZeroSet
	}

	seen := make(map[int]struct{}, len(table.Zeros))
	for i, z := range table.Zeros {
		if z.Index <= 0 {
			return fmt.Errorf("%w: zero at position %d has index %d", common.ErrMalformedZeroFile, i, z.Index)
		}
		if z.Gamma.IsZero() || z.Weight.IsZero() {
			return fmt.Errorf("%w: zero n=%d is missing gamma or weight", common.ErrMalformedZeroFile, z.Index)
		}
		if !z.Gamma.IsFinitePositive() || !z.Weight.IsFinitePositive() {
			return fmt.Errorf("%w: zero n=%d: gamma %s and weight %s must be positive", common.ErrMalformedZeroFile, z.Index, z.Gamma, z.Weight)
		}
		if _, dup := seen[z.Index]; dup {
			return fmt.Errorf("%w: duplicate zero index %d", common.ErrMalformedZeroFile, z.Index)
		}
		seen[z.Index] = struct{}{}
	}
	return nil
}
