package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"chartkit/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBatchSize  = 100
	defaultFlushDelay = 200 * time.Millisecond
)

// WriterConfig configures the SQLite writer. Every bar written through this
// writer belongs to one symbol and timeframe.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/bars.db"
	Symbol string
	TF     string // timeframe label, e.g. "1m"
}

// Session is the persisted chart session state: which indicator is selected
// and with what inputs. Restored on startup so a restart does not lose the
// user's chart setup.
type Session struct {
	Symbol    string         `json:"symbol"`
	TF        string         `json:"tf"`
	Indicator string         `json:"indicator"`
	Inputs    map[string]any `json:"inputs"`
}

// Writer is a single-goroutine SQLite writer with transaction batching.
type Writer struct {
	db     *sql.DB
	symbol string
	tf     string
}

// DB returns the underlying sql.DB for health checks.
func (w *Writer) DB() *sql.DB { return w.db }

// New creates a new SQLite Writer, initializes the database with WAL mode and schema.
func New(cfg WriterConfig) (*Writer, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Set connection pool for single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[sqlite] opened database at %s", cfg.DBPath)
	return &Writer{db: db, symbol: cfg.Symbol, tf: cfg.TF}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol     TEXT    NOT NULL,
			tf         TEXT    NOT NULL,
			ts         INTEGER NOT NULL,
			open       REAL    NOT NULL,
			high       REAL    NOT NULL,
			low        REAL    NOT NULL,
			close      REAL    NOT NULL,
			volume     REAL,
			PRIMARY KEY (symbol, tf, ts)
		);

		CREATE TABLE IF NOT EXISTS chart_sessions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			data       TEXT    NOT NULL,
			created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
		);
	`)
	return err
}

// Run reads bars from barCh and inserts them in batched transactions.
// Flushes every batchSize bars OR every flushDelay, whichever first.
// Blocks until ctx is cancelled or barCh is closed.
func (w *Writer) Run(ctx context.Context, barCh <-chan model.Bar) {
	batch := make([]model.Bar, 0, defaultBatchSize)
	timer := time.NewTimer(defaultFlushDelay)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		if err := w.InsertBars(batch); err != nil {
			log.Printf("[sqlite] batch insert error: %v", err)
		} else {
			log.Printf("[sqlite] committed %d bars in %v", len(batch), time.Since(start))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case bar, ok := <-barCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, bar)
			if len(batch) >= defaultBatchSize {
				flush()
				timer.Reset(defaultFlushDelay)
			}

		case <-timer.C:
			flush()
			timer.Reset(defaultFlushDelay)
		}
	}
}

// InsertBars inserts a batch of bars in a single transaction. A bar at an
// existing timestamp replaces the stored one, so re-ingesting or finalizing
// a forming bar is safe.
func (w *Writer) InsertBars(bars []model.Bar) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bars (symbol, tf, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.Exec(w.symbol, w.tf, b.Time, b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// GetLastTimestamp returns the last stored bar timestamp for the writer's
// symbol and timeframe. Returns 0 if no bars exist.
func (w *Writer) GetLastTimestamp() (int64, error) {
	var ts sql.NullInt64
	err := w.db.QueryRow(
		`SELECT MAX(ts) FROM bars WHERE symbol = ? AND tf = ?`,
		w.symbol, w.tf,
	).Scan(&ts)
	if err != nil {
		return 0, err
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

// SaveSession saves the chart session state to SQLite.
func (w *Writer) SaveSession(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	_, err = w.db.Exec(`INSERT INTO chart_sessions (data) VALUES (?)`, string(data))
	if err != nil {
		return fmt.Errorf("sqlite insert session: %w", err)
	}

	// Prune old sessions — keep last 10
	_, err = w.db.Exec(`DELETE FROM chart_sessions WHERE id NOT IN (SELECT id FROM chart_sessions ORDER BY created_at DESC LIMIT 10)`)
	if err != nil {
		log.Printf("[sqlite] prune sessions warning: %v", err)
	}

	return nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
