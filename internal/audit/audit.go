package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Entry is one audit record. The sink is an external collaborator: failures
// are logged, never propagated to the caller.
type Entry struct {
	CompanyID  string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Meta       map[string]any
}

//go:generate mockgen -source=audit.go -destination=mock/audit_mock.go -package=mock
type Sink interface {
	Record(ctx context.Context, entry Entry)
}

type zapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger ...*zap.Logger) Sink {
	l := zap.L().Named("audit")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit")
	}
	return &zapSink{logger: l}
}

func (s *zapSink) Record(_ context.Context, entry Entry) {
	s.logger.Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("company_id", entry.CompanyID),
		zap.String("actor_id", entry.ActorID),
		zap.String("action", entry.Action),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
		zap.Any("meta", entry.Meta),
	)
}

// NopSink is used in tests.
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) {}
