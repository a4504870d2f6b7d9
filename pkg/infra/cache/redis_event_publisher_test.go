package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/channel"
	"github.com/NeuralTrust/ExamWatch/pkg/infra/cache/event"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessage_WrapsEventInEnvelope(t *testing.T) {
	ev := event.SessionTerminatedEvent{SessionID: "s-1", AssessmentID: "a-1", Reason: "too many violations"}

	data, err := EncodeMessage(ev)
	require.NoError(t, err)

	var envelope RedisMessage
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, event.SessionTerminatedEventType, envelope.Type)

	var decoded event.SessionTerminatedEvent
	require.NoError(t, json.Unmarshal(envelope.Event, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestRedisEventPublisher_Publish(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	publisher := NewRedisEventPublisher(NewClientFromRedis(redisClient))

	ev := event.RoleInvalidatedEvent{UserID: "user-1"}
	data, err := EncodeMessage(ev)
	require.NoError(t, err)
	mock.ExpectPublish(string(channel.IdentityEventsChannel), data).SetVal(1)

	err = publisher.Publish(context.Background(), channel.IdentityEventsChannel, ev)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisEventPublisher_PublishError(t *testing.T) {
	redisClient, mock := redismock.NewClientMock()
	publisher := NewRedisEventPublisher(NewClientFromRedis(redisClient))

	ev := event.RoleInvalidatedEvent{UserID: "user-1"}
	data, err := EncodeMessage(ev)
	require.NoError(t, err)
	mock.ExpectPublish(string(channel.IdentityEventsChannel), data).SetErr(errors.New("connection refused"))

	err = publisher.Publish(context.Background(), channel.IdentityEventsChannel, ev)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), event.RoleInvalidatedEventType)
}
