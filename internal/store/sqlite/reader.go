package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"chartkit/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access to SQLite for history backfill and
// session restore.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[sqlite-reader] opened %s", dbPath)
	return &Reader{db: db}, nil
}

// DB returns the underlying sql.DB for health checks.
func (r *Reader) DB() *sql.DB { return r.db }

// ReadBars reads bars for a symbol and timeframe after a given timestamp.
// Results are ordered by timestamp ascending for correct chart order.
func (r *Reader) ReadBars(symbol, tf string, afterTS int64) ([]model.Bar, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND tf = ? AND ts > ?
		ORDER BY ts ASC
	`, symbol, tf, afterTS)
	if err != nil {
		return nil, fmt.Errorf("sqlite query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var vol sql.NullFloat64
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &vol); err != nil {
			return nil, fmt.Errorf("sqlite scan bars: %w", err)
		}
		b.Volume = vol.Float64
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// ReadLastBars reads the most recent n bars for a symbol and timeframe,
// returned in ascending order.
func (r *Reader) ReadLastBars(symbol, tf string, n int) ([]model.Bar, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND tf = ?
		ORDER BY ts DESC
		LIMIT ?
	`, symbol, tf, n)
	if err != nil {
		return nil, fmt.Errorf("sqlite query last bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		var vol sql.NullFloat64
		if err := rows.Scan(&b.Time, &b.Open, &b.High, &b.Low, &b.Close, &vol); err != nil {
			return nil, fmt.Errorf("sqlite scan bars: %w", err)
		}
		b.Volume = vol.Float64
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into ascending order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	return bars, nil
}

// Symbols lists the distinct symbol/timeframe pairs present in the store.
func (r *Reader) Symbols() ([]Session, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol, tf FROM bars ORDER BY symbol, tf`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query symbols: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.Symbol, &s.TF); err != nil {
			return nil, fmt.Errorf("sqlite scan symbols: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReadLatestSession loads the most recent chart session from SQLite.
// Returns nil when none has been saved.
func (r *Reader) ReadLatestSession() (*Session, error) {
	var data string
	err := r.db.QueryRow(`
		SELECT data FROM chart_sessions
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // no session
		}
		return nil, fmt.Errorf("sqlite read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &s, nil
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
