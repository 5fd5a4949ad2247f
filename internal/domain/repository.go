package domain

import (
	"context"
	"time"
)

// MediaUpdate carries one status transition of the generation pipeline.
// Nil artifact fields leave the stored values untouched so partial
// results are never clobbered.
type MediaUpdate struct {
	Status        MediaStatus
	VideoURL      *string
	AudioDataURL  *string
	FailureReason *string
}

// ProductRepository defines persistence for products. All writes are
// keyed by product id; concurrent pipelines for different products may
// upsert independently.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	UpdateMedia(ctx context.Context, id string, update MediaUpdate) error
	SoftDelete(ctx context.Context, ids []string) (int, error)
	Restore(ctx context.Context, id string) error
	ListTrash(ctx context.Context) ([]Product, error)
	PurgeExpired(ctx context.Context, olderThan time.Time) (int, error)
}
