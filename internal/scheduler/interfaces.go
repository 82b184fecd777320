package scheduler

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/gabriel/bmh/internal/metadata"
	"github.com/gabriel/bmh/internal/models"
)

type LibraryStore interface {
	ListMissingMetadata(ctx context.Context, limit int) ([]models.LibraryEntry, error)
	SetMetadata(ctx context.Context, id string, meta models.ExternalMetadata, now time.Time) error
}

type Resolver interface {
	Resolve(ctx context.Context, title string) metadata.Resolution
}
