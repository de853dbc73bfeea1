// Command ingest loads OHLCV bars from a CSV file into the SQLite store,
// and can optionally replay them onto the live Redis stream to exercise a
// running chart server.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"chartkit/config"
	"chartkit/internal/model"
	redisstore "chartkit/internal/store/redis"
	"chartkit/internal/store/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)

	csvPath := flag.String("csv", "", "CSV file with ts,open,high,low,close[,volume] rows")
	replay := flag.Bool("replay", false, "publish bars to the Redis live stream after storing")
	rate := flag.Duration("rate", 250*time.Millisecond, "delay between replayed bars")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("[ingest] -csv is required")
	}

	cfg := config.Load()

	bars, err := readCSV(*csvPath)
	if err != nil {
		log.Fatalf("[ingest] read csv: %v", err)
	}
	log.Printf("[ingest] parsed %d bars from %s", len(bars), *csvPath)

	store, err := sqlite.New(sqlite.WriterConfig{
		DBPath: cfg.SQLitePath,
		Symbol: cfg.Symbol,
		TF:     cfg.TF,
	})
	if err != nil {
		log.Fatalf("[ingest] open store: %v", err)
	}
	defer store.Close()

	if err := store.InsertBars(bars); err != nil {
		log.Fatalf("[ingest] insert: %v", err)
	}
	log.Printf("[ingest] stored %d bars for %s %s", len(bars), cfg.Symbol, cfg.TF)

	if !*replay {
		return
	}

	writer, err := redisstore.New(redisstore.WriterConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Symbol:   cfg.Symbol,
		TF:       cfg.TF,
	})
	if err != nil {
		log.Fatalf("[ingest] redis: %v", err)
	}
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	barCh := make(chan model.Bar)
	go func() {
		defer close(barCh)
		for _, b := range bars {
			select {
			case <-ctx.Done():
				return
			case barCh <- b:
			}
			time.Sleep(*rate)
		}
	}()

	log.Printf("[ingest] replaying %d bars at %v per bar", len(bars), *rate)
	writer.Run(ctx, barCh)
	log.Printf("[ingest] replay done")
}

// readCSV parses ts,open,high,low,close[,volume] rows. A header row is
// skipped when the first field is not numeric.
func readCSV(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []model.Bar
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 5 {
			log.Printf("[ingest] line %d: want at least 5 fields, got %d", line, len(rec))
			continue
		}

		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			log.Printf("[ingest] line %d: bad timestamp %q", line, rec[0])
			continue
		}

		b := model.Bar{Time: ts}
		fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close}
		bad := false
		for i, dst := range fields {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				log.Printf("[ingest] line %d: bad field %q", line, rec[i+1])
				bad = true
				break
			}
			*dst = v
		}
		if bad {
			continue
		}
		if len(rec) > 5 {
			b.Volume, _ = strconv.ParseFloat(rec[5], 64)
		}
		bars = append(bars, b)
	}
	return bars, nil
}
