package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-otp-core/internal/domain"
	"github.com/go-otp-core/internal/pkg/id"
)

// Sink records engine decisions. Implementations must never block the
// caller or fail the primary operation.
type Sink interface {
	Record(ctx context.Context, action string, payload map[string]string, actorID string)
}

// SlogSink writes audit events to the process log.
type SlogSink struct{}

func NewSlogSink() *SlogSink { return &SlogSink{} }

func (*SlogSink) Record(_ context.Context, action string, payload map[string]string, actorID string) {
	slog.Info("audit", "action", action, "actor_id", actorID, "payload", payload)
}

// EventStore is the persistence interface StoreSink appends through.
type EventStore interface {
	Put(ctx context.Context, e *domain.AuditEvent) error
}

// StoreSink persists audit events asynchronously. Writes run in their
// own goroutine with a detached timeout so a slow store cannot stall or
// fail the operation being audited; failures are logged and dropped.
type StoreSink struct {
	store     EventStore
	retention time.Duration
}

func NewStoreSink(store EventStore, retention time.Duration) *StoreSink {
	return &StoreSink{store: store, retention: retention}
}

func (s *StoreSink) Record(_ context.Context, action string, payload map[string]string, actorID string) {
	now := time.Now().UTC()
	e := &domain.AuditEvent{
		EventID:   id.New(),
		Action:    action,
		ActorID:   actorID,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(s.retention).Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.Put(ctx, e); err != nil {
			slog.Warn("failed to persist audit event", "action", action, "err", err)
		}
	}()
}

// Multi fans a record out to several sinks.
type Multi []Sink

func (m Multi) Record(ctx context.Context, action string, payload map[string]string, actorID string) {
	for _, s := range m {
		s.Record(ctx, action, payload, actorID)
	}
}
