package application

import (
	"time"

	"github.com/bnema/dramaradar/internal/domain"
)

// Report summarizes one completed run.
type Report struct {
	RanAt    time.Time           `json:"ran_at"`
	Baseline bool                `json:"baseline"`
	DryRun   bool                `json:"dry_run"`
	Observed int                 `json:"observed"`
	New      int                 `json:"new"`
	Notified int                 `json:"notified"`
	Failed   int                 `json:"failed_notifications"`
	NewItems []domain.RankedItem `json:"new_items,omitempty"`
}
