package domain

import (
	"strings"
	"time"
)

// SeenRecord is one persisted identity. Records are unique per identity,
// created on first detection and never mutated or deleted afterwards.
// Title and Platform are display metadata captured at first sight.
type SeenRecord struct {
	Identity    Identity
	Title       string
	Platform    string
	FirstSeenAt time.Time
}

// NewSeenRecord captures a ranked item as a seen record.
func NewSeenRecord(item RankedItem, at time.Time) SeenRecord {
	return SeenRecord{
		Identity:    item.Identity(),
		Title:       strings.Join(strings.Fields(item.Title), " "),
		Platform:    item.Platform,
		FirstSeenAt: at.UTC(),
	}
}
