package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"taskchat-be/internal/dto"
	"taskchat-be/internal/entity"
	"taskchat-be/internal/repository/memory"
	"taskchat-be/internal/repository/specification"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerIncrementsDailyUsage(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	ctx := context.Background()

	user := &entity.User{Email: "a@b.c", Username: "alice", AiDailyUsageLastReset: time.Now()}
	require.NoError(t, factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	topic := "chat.turn.completed"

	consumer := NewConsumerService(pubSub, topic, factory, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, topic)
	payload, err := json.Marshal(dto.TurnCompletedMessage{
		UserId:         user.Id,
		ConversationId: 1,
		ToolCallCount:  2,
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))
	require.NoError(t, publisher.Publish(ctx, payload))

	require.Eventually(t, func() bool {
		u, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx,
			specification.ByID{ID: user.Id})
		return err == nil && u != nil && u.AiDailyUsage == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewRepositoryFactory(store)
	ctx := context.Background()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	topic := "chat.turn.completed"

	consumer := NewConsumerService(pubSub, topic, factory, nopLogger{})
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, topic)
	require.NoError(t, publisher.Publish(ctx, []byte("not json")))

	// A malformed message must not wedge the subscription.
	user := &entity.User{Email: "a@b.c", Username: "alice"}
	require.NoError(t, factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))
	payload, _ := json.Marshal(dto.TurnCompletedMessage{UserId: user.Id})
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		u, err := factory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx,
			specification.ByID{ID: user.Id})
		return err == nil && u != nil && u.AiDailyUsage == 1
	}, 2*time.Second, 10*time.Millisecond)
}
