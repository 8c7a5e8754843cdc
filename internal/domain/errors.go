package domain

import "errors"

var (
	// ErrFetch marks extractor failures. A run that hits one aborts with
	// nothing persisted and nothing sent.
	ErrFetch = errors.New("ranking fetch failed")

	// ErrStore marks persistence failures. Fatal: the run aborts before any
	// notification goes out, so the next run can safely redo the diff.
	ErrStore = errors.New("seen-set store failed")

	// ErrDelivery marks a single failed notification. Non-fatal: the item is
	// already persisted and the remaining items are still attempted.
	ErrDelivery = errors.New("notification delivery failed")

	ErrMalformedItem = errors.New("malformed ranking item")
)
