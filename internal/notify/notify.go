package notify

import (
	"context"

	"go-leavehub/internal/events"
)

// Sink delivers user notifications. Implementations are best-effort: delivery
// failure must never surface to the business transaction that triggered it.
//
//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock
type Sink interface {
	Notify(ctx context.Context, n events.LeaveNotification)
}

// NopSink is used in tests and when no broker is configured.
type NopSink struct{}

func (NopSink) Notify(context.Context, events.LeaveNotification) {}
