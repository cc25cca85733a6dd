package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// EventLogService records domain events to the structured log and the
// in-process metrics counters. It is the audit trail for the
// conversation lifecycle.
type EventLogService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewEventLogService creates the service.
func NewEventLogService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *EventLogService {
	return &EventLogService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (s *EventLogService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
	s.dispatcher.Subscribe(events.EventMessageAdded, s.handleMessageAdded)
	s.dispatcher.Subscribe(events.EventTicketEscalated, s.handleTicketEscalated)
	s.dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleTicketStatusChanged)
}

func (s *EventLogService) handleTicketCreated(ctx context.Context, event events.Event) error {
	s.logger.Info("TicketCreated",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	s.count(event)
	return nil
}

func (s *EventLogService) handleMessageAdded(ctx context.Context, event events.Event) error {
	s.logger.Info("MessageAdded",
		zap.Int64("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	s.count(event)
	return nil
}

func (s *EventLogService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	s.logger.Warn("TicketEscalated",
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	s.count(event)
	return nil
}

func (s *EventLogService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	s.logger.Info("TicketStatusChanged",
		zap.Int64("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	s.count(event)
	return nil
}

func (s *EventLogService) count(event events.Event) {
	if s.metrics != nil {
		s.metrics.RecordEvent(string(event.Type))
	}
}
