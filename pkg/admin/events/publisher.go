package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nexusai-be/internal/pkg/logger"
	pkgEvents "nexusai-be/pkg/events"
	pktNats "nexusai-be/pkg/nats"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string)
	PublishUserStatusUpdated(ctx context.Context, userId uuid.UUID, oldStatus, newStatus, reason string)
	PublishUserDeleted(ctx context.Context, userId uuid.UUID, email string, deletedChats int64)
	PublishChatDeleted(ctx context.Context, chatId uuid.UUID, sessionId string)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	// A nil publisher means NATS was unavailable at startup; events degrade
	// to no-ops rather than failing admin operations.
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishUserRegistered emits USER_REGISTERED for both self-service and
// admin-created accounts; source distinguishes them.
func (p *NatsPublisher) PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string) {
	p.publish(ctx, "USER_REGISTERED", map[string]interface{}{
		"user_id":   userId,
		"email":     email,
		"full_name": fullName,
		"source":    source,
	})
}

func (p *NatsPublisher) PublishUserStatusUpdated(ctx context.Context, userId uuid.UUID, oldStatus, newStatus, reason string) {
	p.publish(ctx, "USER_STATUS_UPDATED", map[string]interface{}{
		"user_id":    userId,
		"old_status": oldStatus,
		"new_status": newStatus,
		"reason":     reason,
	})
}

func (p *NatsPublisher) PublishUserDeleted(ctx context.Context, userId uuid.UUID, email string, deletedChats int64) {
	p.publish(ctx, "USER_DELETED", map[string]interface{}{
		"user_id":       userId,
		"email":         email,
		"deleted_chats": deletedChats,
	})
}

func (p *NatsPublisher) PublishChatDeleted(ctx context.Context, chatId uuid.UUID, sessionId string) {
	p.publish(ctx, "CHAT_DELETED", map[string]interface{}{
		"chat_id":    chatId,
		"session_id": sessionId,
	})
}
