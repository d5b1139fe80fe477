package notify

import (
	"context"
	"encoding/json"
	"time"

	"go-leavehub/internal/events"
	"go-leavehub/internal/messaging/kafka"
	"go-leavehub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// outboxSink persists notifications into the transactional outbox; the worker
// binary ships them to Kafka. Enqueue happens after the business transaction
// has committed, so a failure here only loses the notification, never the
// state change.
type outboxSink struct {
	repo   kafka.OutboxRepository
	logger *zap.Logger
}

func NewOutboxSink(repo kafka.OutboxRepository, logger ...*zap.Logger) Sink {
	l := zap.L().Named("notify.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.outbox")
	}
	return &outboxSink{repo: repo, logger: l}
}

func (s *outboxSink) Notify(ctx context.Context, n events.LeaveNotification) {
	if n.OccurredAt.IsZero() {
		n.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("marshal notification failed",
			zap.String("request_id", n.RequestID),
			zap.Error(err),
		)
		return
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   n.RequestID,
		EventType:     n.EventType,
		Topic:         events.LeaveNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		s.logger.Error("enqueue notification failed",
			zap.String("request_id", n.RequestID),
			zap.String("recipient_id", n.RecipientID),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("notification enqueued",
		zap.String("event_type", n.EventType),
		zap.String("recipient_id", n.RecipientID),
	)
}
