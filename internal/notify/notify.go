package notify

import (
	"context"

	"ipwatch/internal/types"
)

// Result reports what a notification attempt did
type Result int

const (
	// Failed means delivery was attempted and failed
	Failed Result = iota
	// Sent means the message was handed to the relay
	Sent
	// Skipped means there was nobody to notify
	Skipped
)

func (r Result) String() string {
	switch r {
	case Sent:
		return "sent"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Notifier delivers address change notifications
type Notifier interface {
	// NotifyIPChange sends an address change notification.
	// Errors are types.KindNotification and never fatal to a run.
	NotifyIPChange(ctx context.Context, record *types.IPChangeRecord) (Result, error)
}
