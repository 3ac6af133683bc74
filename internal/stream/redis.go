// Package stream publishes live quotes to a Redis stream for downstream consumers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/redis/go-redis/v9"

	"StockDashboard/internal/model"
)

const (
	DefaultRedisAddr = "localhost:6379"
	DefaultStream    = "dashboard:quotes:stream"
	// MaxLen bounds the stream; trimming is approximate.
	MaxLen = 1000
)

// QuoteMessage is the JSON payload stored under the "data" field of each entry.
type QuoteMessage struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// RedisPublisher appends live quotes to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
	logger log.Logger
}

// NewRedisPublisher connects to addr and verifies the connection with PING.
func NewRedisPublisher(ctx context.Context, addr, stream string, logger log.Logger) (*RedisPublisher, error) {
	if addr == "" {
		addr = DefaultRedisAddr
	}
	if stream == "" {
		stream = DefaultStream
	}
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
		MaxRetries:  1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	_ = level.Info(logger).Log("msg", "redis publisher connected", "addr", addr, "stream", stream)
	return &RedisPublisher{client: client, stream: stream, logger: logger}, nil
}

// Stream returns the stream key entries are added to.
func (p *RedisPublisher) Stream() string { return p.stream }

// Publish adds q to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, q *model.LiveQuote) error {
	values, err := encodeQuote(q)
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: MaxLen,
		Approx: true,
		ID:     "*",
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("add to redis stream: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func encodeQuote(q *model.LiveQuote) (map[string]interface{}, error) {
	if q == nil {
		return nil, fmt.Errorf("nil quote")
	}
	data, err := json.Marshal(QuoteMessage{
		Symbol:    q.Symbol,
		Price:     q.Price,
		Timestamp: q.ObservedAt.UTC(),
		Source:    "live-price",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal quote: %w", err)
	}
	return map[string]interface{}{"data": string(data)}, nil
}
