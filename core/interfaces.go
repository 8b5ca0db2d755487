package core

import "context"

// Notifier is an interface to receive resource notifications.
//
// Notifications are fire and forget: implementations must not block the
// calling request handler longer than necessary and have to handle
// delivery failures themselves.
type Notifier interface {
	Notify(ctx context.Context, resource string, operation Operation, resourceID int64, payload []byte)
}
