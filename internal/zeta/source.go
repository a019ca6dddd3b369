package zeta

import (
	"context"
	"fmt"

	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/miosync-masa/digit-consonance/internal/service"
)

// FileSource loads zeros from a JSON file.
type FileSource struct {
	Path     string
	MaxZeros int
}

// LoadZeros implements service.ZeroSource.
func (s FileSource) LoadZeros(_ context.Context) (*model.ZeroTable, error) {
	return Load(s.Path, WithMaxZeros(s.MaxZeros))
}

// Describe returns a short label for reports.
func (s FileSource) Describe() string {
	return s.Path
}

// StoreSource loads a named table from a zero store.
type StoreSource struct {
	Store    service.ZeroStore
	Name     string
	MaxZeros int
}

// LoadZeros implements service.ZeroSource.
func (s StoreSource) LoadZeros(ctx context.Context) (*model.ZeroTable, error) {
	return s.Store.LoadZeroTable(ctx, s.Name, s.MaxZeros)
}

// Describe returns a short label for reports.
func (s StoreSource) Describe() string {
	return fmt.Sprintf("table %q", s.Name)
}

var (
	_ service.ZeroSource = FileSource{}
	_ service.ZeroSource = StoreSource{}
)
