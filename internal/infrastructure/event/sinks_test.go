package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePublisher struct {
	channel string
	message any
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	p.channel = channel
	p.message = message
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if p.err != nil {
		cmd.SetErr(p.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func TestRedisSink_Send(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewRedisSink(pub, "backoffice:changes")
	note := ChangeNotification{
		ID:         uuid.New(),
		EntityType: "cash_session",
		EventType:  "CashSessionClosed",
		EntityID:   uuid.New(),
		Timestamp:  time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC),
	}

	require.NoError(t, sink.Send(context.Background(), note))
	assert.Equal(t, "backoffice:changes", pub.channel)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.message.([]byte), &decoded))
	assert.Equal(t, "cash_session", decoded["entityType"])
	assert.Equal(t, "2026-05-04T18:00:00Z", decoded["timestamp"])
	assert.Equal(t, note.EntityID.String(), decoded["entityId"])
}

func TestRedisSink_SendError(t *testing.T) {
	sink := NewRedisSink(&fakePublisher{err: errors.New("connection refused")}, "ch")
	err := sink.Send(context.Background(), ChangeNotification{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLogSink_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	require.NoError(t, sink.Send(context.Background(), ChangeNotification{EntityType: "check", EventType: "CheckDeposited"}))
	entries := logs.FilterMessage("Entity changed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "check", entries[0].ContextMap()["entity_type"])
	assert.Equal(t, "log", sink.Name())
}
