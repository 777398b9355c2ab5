package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	channel string
	payload []byte
}

type fakeClient struct {
	published []publishedMessage
	err       error
}

func (c *fakeClient) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if c.err != nil {
		cmd.SetErr(c.err)
		return cmd
	}
	c.published = append(c.published, publishedMessage{channel: channel, payload: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func TestRedisEventPublisher_Channels(t *testing.T) {
	p := newRedisEventPublisher(&fakeClient{})
	assert.Equal(t, "fiado:balance:owner-1", p.BalanceChannel("owner-1"))
	assert.Equal(t, "fiado:totals:owner-1", p.TotalsChannel("owner-1"))

	p = newRedisEventPublisher(&fakeClient{}, WithChannelPrefix("shop"))
	assert.Equal(t, "shop:balance:owner-1", p.BalanceChannel("owner-1"))

	p = newRedisEventPublisher(&fakeClient{}, WithChannelPrefix(""))
	assert.Equal(t, "fiado:totals:x", p.TotalsChannel("x"), "empty prefix keeps the default")
}

func TestRedisEventPublisher_PublishesJSON(t *testing.T) {
	client := &fakeClient{}
	p := newRedisEventPublisher(client)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := p.PublishBalanceChanged(context.Background(), domain.BalanceChangedEvent{
		OwnerID:    "owner-1",
		AccountID:  "acc-1",
		CustomerID: "cust-1",
		NewBalance: decimal.RequireFromString("12.50"),
		OccurredAt: at,
	})
	require.NoError(t, err)
	err = p.PublishTotalsChanged(context.Background(), domain.TotalsChangedEvent{
		OwnerID:    "owner-1",
		NewTotal:   decimal.RequireFromString("40"),
		OccurredAt: at,
	})
	require.NoError(t, err)

	require.Len(t, client.published, 2)
	assert.Equal(t, "fiado:balance:owner-1", client.published[0].channel)
	assert.Equal(t, "fiado:totals:owner-1", client.published[1].channel)

	var event domain.BalanceChangedEvent
	require.NoError(t, json.Unmarshal(client.published[0].payload, &event))
	assert.Equal(t, "cust-1", event.CustomerID)
	assert.True(t, decimal.RequireFromString("12.5").Equal(event.NewBalance))
	assert.True(t, at.Equal(event.OccurredAt))
}

func TestRedisEventPublisher_PropagatesErrors(t *testing.T) {
	p := newRedisEventPublisher(&fakeClient{err: errors.New("connection refused")})
	err := p.PublishTotalsChanged(context.Background(), domain.TotalsChangedEvent{OwnerID: "o"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fiado:totals:o")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestNewRedisEventPublisher_InvalidURL(t *testing.T) {
	_, err := NewRedisEventPublisher(context.Background(), "not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

func TestLogEventPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogEventPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, p.PublishBalanceChanged(context.Background(), domain.BalanceChangedEvent{
		OwnerID: "o", CustomerID: "c", NewBalance: decimal.RequireFromString("3"),
	}))
	assert.Contains(t, buf.String(), `"customer_id":"c"`)
	assert.Contains(t, buf.String(), `"new_balance":"3"`)
}
