package ports

import "context"

// Notifier delivers one formatted message per new item. Batching, if any, is
// the notifier's own concern.
type Notifier interface {
	Send(ctx context.Context, message string) error
}
