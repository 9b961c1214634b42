package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/product-service/internal/events"
)

// StartAuditWorker subscribes a structured audit log writer to every product event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(_ context.Context, e events.Event) error {
		audit.Info("product event",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Int64("product_id", e.ProductID),
			zap.String("actor", e.Actor),
			zap.Time("at", e.Timestamp),
			zap.Any("payload", e.Payload),
		)
		return nil
	}
	for _, t := range []events.EventType{events.EventProductCreated, events.EventProductUpdated, events.EventProductDeleted} {
		dispatcher.Subscribe(t, handler)
	}
}
