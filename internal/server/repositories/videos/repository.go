// Package videos contains the video metadata repository contract and its
// backends: a flat JSON file, a MongoDB collection and a PostgreSQL table,
// plus a caching decorator for List.
package videos

import (
	"context"

	"github.com/dmitrijs2005/clipvault/internal/server/models"
)

// Repository is the storage backend contract shared by all implementations.
//
// Put fails with common.ErrDuplicateID if the id already exists. Get and
// Delete fail with common.ErrorNotFound for unknown ids. List returns records
// in a backend-defined order that is stable while no writes intervene.
type Repository interface {
	Put(ctx context.Context, v *models.Video) error
	Get(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context) ([]*models.Video, error)
	Delete(ctx context.Context, id string) error
}
