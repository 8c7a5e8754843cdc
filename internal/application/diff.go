package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

// Diff returns the ordered subsequence of observed items whose identities are
// not yet in the seen-set. A repeated identity within one observation pass
// only counts once: later repeats are treated as already seen even before the
// store is updated, so a malformed source cannot trigger duplicate alerts.
//
// On a baseline run the result is forced empty regardless of store content.
func Diff(ctx context.Context, observed []domain.RankedItem, repo ports.SeenRepository, baseline bool) ([]domain.RankedItem, error) {
	if baseline {
		return nil, nil
	}

	withinRun := make(map[domain.Identity]struct{}, len(observed))
	var fresh []domain.RankedItem

	for _, item := range observed {
		id := item.Identity()
		if _, dup := withinRun[id]; dup {
			continue
		}
		withinRun[id] = struct{}{}

		known, err := repo.Contains(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("membership check for %q: %w", item.Title, err)
		}
		if !known {
			fresh = append(fresh, item)
		}
	}

	return fresh, nil
}

// uniqueRecords maps every observed item to a seen record, keeping the first
// occurrence of each identity. The union of all observed identities is
// persisted, not just the new ones, so items that dropped off and returned
// converge to seen status.
func uniqueRecords(observed []domain.RankedItem, at time.Time) []domain.SeenRecord {
	seen := make(map[domain.Identity]struct{}, len(observed))
	records := make([]domain.SeenRecord, 0, len(observed))

	for _, item := range observed {
		id := item.Identity()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		records = append(records, domain.NewSeenRecord(item, at))
	}

	return records
}
