package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
)

// AuditService records ticket lifecycle changes made through the dashboard.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketChanged)
	a.dispatcher.Subscribe(events.EventTicketUpdated, a.handleTicketChanged)
	a.dispatcher.Subscribe(events.EventTicketArchived, a.handleTicketArchived)
}

func (a *AuditService) handleTicketChanged(ctx context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("session_id", event.SessionID),
	}
	if p, ok := event.Payload.(events.TicketChangedPayload); ok {
		fields = append(fields,
			zap.String("ci_name", p.CIName),
			zap.String("status", string(p.Status)),
			zap.Int("priority", p.Priority))
	}
	a.logger.Info(string(event.Type), fields...)
	return nil
}

func (a *AuditService) handleTicketArchived(ctx context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("session_id", event.SessionID))
	return nil
}
