// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/miosync-masa/digit-consonance/internal/model"
)

// ZeroSource supplies an ordered zero table to the resonance scorer.
type ZeroSource interface {
	LoadZeros(ctx context.Context) (*model.ZeroTable, error)
	Describe() string
}

// ZeroStore defines the contract for the zero-table cache.
type ZeroStore interface {
	SaveZeroTable(ctx context.Context, name string, table *model.ZeroTable) error
	LoadZeroTable(ctx context.Context, name string, limit int) (*model.ZeroTable, error)
	ListZeroTables(ctx context.Context) ([]model.ZeroTableInfo, error)
	DeleteZeroTable(ctx context.Context, name string) error

	Migrate(ctx context.Context) error
	Close() error
}
