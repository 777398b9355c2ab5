package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fiado_backend/internal/core/domain"
	portssvc "github.com/SscSPs/fiado_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

const (
	defaultChannelPrefix = "fiado"
	defaultPingTimeout   = 5 * time.Second
)

// publishClient is the subset of *redis.Client the publisher needs.
type publishClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisEventPublisher fans ledger events out over Redis Pub/Sub.
// Balance events go to <prefix>:balance:<ownerID>, totals to <prefix>:totals:<ownerID>.
type RedisEventPublisher struct {
	client publishClient
	closer func() error
	prefix string
	logger *slog.Logger
}

var _ portssvc.EventPublisher = (*RedisEventPublisher)(nil)

// RedisEventPublisherOption is a functional option for configuring the publisher
type RedisEventPublisherOption func(*RedisEventPublisher)

// WithChannelPrefix sets the channel name prefix
func WithChannelPrefix(prefix string) RedisEventPublisherOption {
	return func(p *RedisEventPublisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithPublisherLogger sets the logger used for debug output
func WithPublisherLogger(logger *slog.Logger) RedisEventPublisherOption {
	return func(p *RedisEventPublisher) {
		p.logger = logger
	}
}

// NewRedisEventPublisher connects to redisURL and verifies the connection.
func NewRedisEventPublisher(ctx context.Context, redisURL string, opts ...RedisEventPublisherOption) (*RedisEventPublisher, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	p := newRedisEventPublisher(client, opts...)
	p.closer = client.Close
	return p, nil
}

// NewRedisEventPublisherWithClient uses an existing client. The caller keeps ownership of it.
func NewRedisEventPublisherWithClient(client *redis.Client, opts ...RedisEventPublisherOption) *RedisEventPublisher {
	return newRedisEventPublisher(client, opts...)
}

func newRedisEventPublisher(client publishClient, opts ...RedisEventPublisherOption) *RedisEventPublisher {
	p := &RedisEventPublisher{
		client: client,
		prefix: defaultChannelPrefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BalanceChannel returns the channel balance events of ownerID are published on.
func (p *RedisEventPublisher) BalanceChannel(ownerID string) string {
	return fmt.Sprintf("%s:balance:%s", p.prefix, ownerID)
}

// TotalsChannel returns the channel totals events of ownerID are published on.
func (p *RedisEventPublisher) TotalsChannel(ownerID string) string {
	return fmt.Sprintf("%s:totals:%s", p.prefix, ownerID)
}

func (p *RedisEventPublisher) PublishBalanceChanged(ctx context.Context, event domain.BalanceChangedEvent) error {
	return p.publish(ctx, p.BalanceChannel(event.OwnerID), event)
}

func (p *RedisEventPublisher) PublishTotalsChanged(ctx context.Context, event domain.TotalsChangedEvent) error {
	return p.publish(ctx, p.TotalsChannel(event.OwnerID), event)
}

func (p *RedisEventPublisher) publish(ctx context.Context, channel string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	p.logger.DebugContext(ctx, "Published ledger event", slog.String("channel", channel))
	return nil
}

// Close releases the client when the publisher created it.
func (p *RedisEventPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
