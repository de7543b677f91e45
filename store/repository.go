// Package store holds the persistence port for franchise aggregates and its
// adapters. Every adapter stores and returns the whole aggregate.
package store

import (
	"context"

	"franchise-api/models"
)

// Repository persists whole franchise aggregates.
//
// Save upserts by id and assigns one when the id is empty. FindByID reports
// found=false with a nil error when nothing is stored under id. Implementations
// must preserve ids, names, stock and the order of nested sequences.
type Repository interface {
	Save(ctx context.Context, f models.Franchise) (models.Franchise, error)
	FindByID(ctx context.Context, id string) (models.Franchise, bool, error)
	FindAll(ctx context.Context) ([]models.Franchise, error)
	DeleteByID(ctx context.Context, id string) error
}

// UpdateFinder is implemented by repositories whose FindByID may answer from a
// copy that trails the backing store. FindByIDForUpdate always reads the
// backing store, and callers use it for the load that precedes a Save.
type UpdateFinder interface {
	FindByIDForUpdate(ctx context.Context, id string) (models.Franchise, bool, error)
}
