// FILE: internal/service/audit_service.go
package service

import (
	"context"

	"nexusai-be/internal/pkg/logger"
	"nexusai-be/pkg/events"
	pktNats "nexusai-be/pkg/nats"
)

type IAuditService interface {
	Start() error
}

// auditService mirrors every admin/domain event from the NATS stream into
// the system log, so the console's log viewer doubles as an audit trail.
type auditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) IAuditService {
	return &auditService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *auditService) Start() error {
	if s.subscriber == nil {
		return nil
	}
	return s.subscriber.Subscribe("events.>", "audit-log", s.handleEvent)
}

func (s *auditService) handleEvent(ctx context.Context, event events.Event) error {
	base, ok := event.(events.BaseEvent)
	if !ok {
		return nil
	}
	s.logger.Info("AUDIT", base.Type, base.Data)
	return nil
}
