package ports

import (
	"context"

	"github.com/bnema/dramaradar/internal/domain"
)

// SeenRepository is the durable seen-set. AddAll persists a batch as a single
// atomic unit: a crash mid-write leaves either the pre-batch or post-batch
// state, and re-adding an already-present identity is a no-op, never an error.
type SeenRepository interface {
	Contains(ctx context.Context, id domain.Identity) (bool, error)
	Count(ctx context.Context) (int, error)
	IsEmpty(ctx context.Context) (bool, error)
	AddAll(ctx context.Context, records []domain.SeenRecord) error
	List(ctx context.Context) ([]domain.SeenRecord, error)
}
