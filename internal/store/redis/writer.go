package redis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"chartkit/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

const (
	// Stream trimming: ~10 days of 1m bars + buffer
	streamMaxLen     = 16000
	defaultLatestTTL = 30 * time.Minute
)

// WriterConfig configures the Redis writer.
type WriterConfig struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
	Symbol   string
	TF       string
}

// Writer publishes live bars to a Redis Stream so chart servers can follow
// the feed. The forming bar is republished at the same timestamp until it
// closes; consumers replace in place.
type Writer struct {
	client  *goredis.Client
	stream  string
	breaker *Breaker
}

// Client returns the underlying Redis client for health checks.
func (w *Writer) Client() *goredis.Client { return w.client }

// New creates a new Redis Writer and pings the server.
func New(cfg WriterConfig) (*Writer, error) {
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

	breaker := NewBreaker(5, 10*time.Second)
	breaker.OnStateChange = func(from, to BreakerState) {
		log.Printf("[redis] publish breaker %s -> %s", from, to)
	}

	stream := StreamName(cfg.Symbol, cfg.TF)
	log.Printf("[redis] connected to %s (stream=%s)", cfg.Addr, stream)
	return &Writer{client: client, stream: stream, breaker: breaker}, nil
}

// StreamName returns the bar stream key for a symbol and timeframe.
func StreamName(symbol, tf string) string {
	return "bars:" + symbol + ":" + tf
}

// Run reads bars from barCh and publishes them to the stream.
// Blocks until ctx is cancelled or barCh is closed.
func (w *Writer) Run(ctx context.Context, barCh <-chan model.Bar) {
	for {
		select {
		case <-ctx.Done():
			return
		case bar, ok := <-barCh:
			if !ok {
				return
			}
			w.writeBar(ctx, bar)
		}
	}
}

// writeBar XADDs one bar and refreshes the latest-bar key.
func (w *Writer) writeBar(ctx context.Context, b model.Bar) {
	values := map[string]interface{}{
		"ts":     b.Time,
		"open":   b.Open,
		"high":   b.High,
		"low":    b.Low,
		"close":  b.Close,
		"volume": b.Volume,
	}

	err := w.breaker.Do(func() error {
		return w.client.XAdd(ctx, &goredis.XAddArgs{
			Stream:       w.stream,
			MaxLenApprox: streamMaxLen,
			Values:       values,
		}).Err()
	})
	if err != nil {
		if err != ErrCircuitOpen {
			log.Printf("[redis] xadd %s error: %v", w.stream, err)
		}
		return
	}

	// Latest-bar key for quick polling without a stream cursor.
	latestKey := "latest:" + w.stream
	w.client.HSet(ctx, latestKey, values)
	w.client.Expire(ctx, latestKey, defaultLatestTTL)
}

// parseBar converts stream field values into a bar.
func parseBar(values map[string]interface{}) (model.Bar, error) {
	var b model.Bar
	var err error

	if b.Time, err = fieldInt(values, "ts"); err != nil {
		return b, err
	}
	if b.Open, err = fieldFloat(values, "open"); err != nil {
		return b, err
	}
	if b.High, err = fieldFloat(values, "high"); err != nil {
		return b, err
	}
	if b.Low, err = fieldFloat(values, "low"); err != nil {
		return b, err
	}
	if b.Close, err = fieldFloat(values, "close"); err != nil {
		return b, err
	}
	// volume is optional
	b.Volume, _ = fieldFloat(values, "volume")
	return b, nil
}

func fieldInt(values map[string]interface{}, key string) (int64, error) {
	s, ok := values[key].(string)
	if !ok {
		return 0, fmt.Errorf("stream field %q missing", key)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stream field %q: %w", key, err)
	}
	return n, nil
}

func fieldFloat(values map[string]interface{}, key string) (float64, error) {
	s, ok := values[key].(string)
	if !ok {
		return 0, fmt.Errorf("stream field %q missing", key)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("stream field %q: %w", key, err)
	}
	return f, nil
}

// Close closes the Redis connection.
func (w *Writer) Close() error {
	return w.client.Close()
}
