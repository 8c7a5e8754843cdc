package domain

import (
	"fmt"
	"strings"
)

// Identity is the normalized key that represents one title across runs.
// Two observations of the same underlying title always map to the same
// Identity, regardless of incidental whitespace or casing on the page.
type Identity string

// RankedItem is one entry of the observed ranking, validated at the
// extractor boundary before it reaches the core.
type RankedItem struct {
	Title      string
	Rank       int
	Platform   string
	OnlineDesc string
	IsFirstDay bool
}

func (i RankedItem) Identity() Identity {
	return NormalizeIdentity(i.Title)
}

func (i RankedItem) Validate() error {
	if NormalizeIdentity(i.Title) == "" {
		return fmt.Errorf("%w: empty title", ErrMalformedItem)
	}
	if i.Rank < 1 {
		return fmt.Errorf("%w: rank %d for %q", ErrMalformedItem, i.Rank, i.Title)
	}
	return nil
}

// NormalizeIdentity collapses interior whitespace runs to a single space,
// trims, and lower-cases. Case folding is a no-op for CJK titles but keeps
// mixed Latin titles stable. Platform is deliberately not part of the
// identity: a title that switches exclusivity is not a new title.
func NormalizeIdentity(title string) Identity {
	return Identity(strings.ToLower(strings.Join(strings.Fields(title), " ")))
}
