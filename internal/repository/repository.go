package repository

import (
	"context"

	"github.com/Amie-dev/cloudinary-saas/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrInvalidRecord = RepositoryError("invalid record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// VideoRepository persists video metadata. Rows are created once and never updated.
// Implementations assign ID and CreatedAt on Create.
type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) (string, error)
	// List returns every stored video in the backend's default order.
	// An empty store yields an empty, non-nil slice.
	List(ctx context.Context) ([]domain.Video, error)
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
