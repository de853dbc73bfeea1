package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"chartkit/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

// ReaderConfig configures the Redis reader.
type ReaderConfig struct {
	Addr     string
	Password string
	DB       int
	Symbol   string
	TF       string
}

// Reader follows the live bar stream for one symbol and timeframe. Unlike a
// consumer group, every chart server gets every bar, so this reads with a
// plain XREAD cursor.
type Reader struct {
	client *goredis.Client
	stream string
	lastID string
}

// Client returns the underlying Redis client for health checks.
func (r *Reader) Client() *goredis.Client { return r.client }

// NewReader creates a new Redis Reader and pings the server.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	stream := StreamName(cfg.Symbol, cfg.TF)
	log.Printf("[redis-reader] connected to %s (stream=%s)", cfg.Addr, stream)
	return &Reader{
		client: client,
		stream: stream,
		lastID: "$", // only bars published after we attach
	}, nil
}

// Follow blocks on XREAD and sends parsed bars to the output channel.
// Returns when ctx is cancelled. Transient errors are logged and retried
// with backoff; the cursor survives retries so no bar is skipped.
func (r *Reader) Follow(ctx context.Context, out chan<- model.Bar) error {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := r.client.XRead(ctx, &goredis.XReadArgs{
			Streams: []string{r.stream, r.lastID},
			Block:   5 * time.Second,
			Count:   100,
		}).Result()
		if err != nil {
			if err == goredis.Nil {
				continue // block timeout, no new bars
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[redis-reader] xread error: %v (retrying in %v)", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, stream := range res {
			for _, msg := range stream.Messages {
				r.lastID = msg.ID
				bar, err := parseBar(msg.Values)
				if err != nil {
					log.Printf("[redis-reader] bad bar %s: %v", msg.ID, err)
					continue
				}
				select {
				case out <- bar:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// Close closes the Redis connection.
func (r *Reader) Close() error {
	return r.client.Close()
}
