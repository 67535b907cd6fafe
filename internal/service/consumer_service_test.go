package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusai-be/internal/entity"
)

func publishSavedEvent(t *testing.T, pubSub *gochannel.GoChannel, event MessageSavedEvent) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(MessageSavedTopic, message.NewMessage(watermill.NewUUID(), payload)))
}

func waitForUsage(t *testing.T, repo *fakeUserRepo, userId uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.get(userId).AiDailyUsage == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, want, repo.get(userId).AiDailyUsage)
}

func TestConsumerIncrementsDailyUsage(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(userRepo, "busy@example.com", "x", entity.UserRoleUser, entity.UserStatusActive)
	user.AiDailyUsageLastReset = time.Now()
	require.NoError(t, userRepo.Update(context.Background(), user))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: newFakeChatRepo(), userRepo: userRepo}}
	consumer := NewConsumerService(pubSub, MessageSavedTopic, factory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publishSavedEvent(t, pubSub, MessageSavedEvent{
		UserId:    user.Id.String(),
		SessionId: "session_1",
		Topic:     "chelsea",
		SavedAt:   time.Now(),
	})
	publishSavedEvent(t, pubSub, MessageSavedEvent{
		UserId:    user.Id.String(),
		SessionId: "session_1",
		Topic:     "chelsea",
		SavedAt:   time.Now(),
	})

	waitForUsage(t, userRepo, user.Id, 2)
}

func TestConsumerResetsCounterAfterMidnight(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(userRepo, "stale@example.com", "x", entity.UserRoleUser, entity.UserStatusActive)
	user.AiDailyUsage = 42
	user.AiDailyUsageLastReset = time.Now().Add(-48 * time.Hour)
	require.NoError(t, userRepo.Update(context.Background(), user))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: newFakeChatRepo(), userRepo: userRepo}}
	consumer := NewConsumerService(pubSub, MessageSavedTopic, factory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publishSavedEvent(t, pubSub, MessageSavedEvent{
		UserId:    user.Id.String(),
		SessionId: "session_2",
		Topic:     "frontend",
		SavedAt:   time.Now(),
	})

	// Stale counter resets before the increment, so it lands on 1.
	waitForUsage(t, userRepo, user.Id, 1)
}

func TestConsumerIgnoresGuestEvents(t *testing.T) {
	userRepo := newFakeUserRepo()
	user := seedUser(userRepo, "idle@example.com", "x", entity.UserRoleUser, entity.UserStatusActive)
	user.AiDailyUsageLastReset = time.Now()
	require.NoError(t, userRepo.Update(context.Background(), user))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	factory := &fakeUowFactory{uow: &fakeUow{chatRepo: newFakeChatRepo(), userRepo: userRepo}}
	consumer := NewConsumerService(pubSub, MessageSavedTopic, factory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publishSavedEvent(t, pubSub, MessageSavedEvent{
		SessionId: "session_guest",
		Topic:     "general",
		SavedAt:   time.Now(),
	})

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, userRepo.get(user.Id).AiDailyUsage)
}
