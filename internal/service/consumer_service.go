// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"nexusai-be/internal/repository/specification"
	"nexusai-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService keeps the per-user daily usage counter in sync with chat
// traffic. It listens on the in-process bus so counting never sits on the
// request path.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, uowFactory unitofwork.RepositoryFactory) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload MessageSavedEvent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Guest exchanges have no counter to bump.
	if payload.UserId == "" {
		msg.Ack()
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		log.Printf("[ERROR] Invalid user id in message: %s", payload.UserId)
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		log.Printf("[ERROR] Failed to get user %s: %v", userId, err)
		msg.Nack()
		return
	}
	if user == nil {
		// Demo admins and deleted accounts have no row to update.
		msg.Ack()
		return
	}

	// Counter resets at local midnight.
	midnight := time.Now().Truncate(24 * time.Hour)
	if user.AiDailyUsageLastReset.Before(midnight) {
		user.AiDailyUsage = 0
		user.AiDailyUsageLastReset = time.Now()
	}
	user.AiDailyUsage++
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		log.Printf("[ERROR] Failed to update usage for user %s: %v", userId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
