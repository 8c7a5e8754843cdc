package ports

import (
	"context"

	"github.com/bnema/dramaradar/internal/domain"
)

// Extractor produces the observed ranking for one run, in ranking order and
// already truncated to the configured top-N. An empty slice means a confirmed
// empty ranking; transient failures must surface as an error instead.
type Extractor interface {
	FetchObserved(ctx context.Context) ([]domain.RankedItem, error)
}
