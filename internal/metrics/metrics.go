package metrics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart server.
type Metrics struct {
	RecomputesTotal prometheus.Counter
	ComputeErrors   prometheus.Counter
	ComputeDur      prometheus.Histogram

	// Chart state
	ActivePanes    prometheus.Gauge
	OverlayObjects *prometheus.GaugeVec // labels: kind

	// Data plane
	BarsIngested    prometheus.Counter
	SQLiteCommitDur prometheus.Histogram
	RedisReadDur    prometheus.Histogram

	// Gateway
	WSClients     prometheus.Gauge
	SnapshotBytes prometheus.Histogram
	SnapshotsSent prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecomputesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartkit_recomputes_total",
			Help: "Total successful indicator recompute cycles",
		}),
		ComputeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartkit_compute_errors_total",
			Help: "Indicator computations that returned an error or panicked",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartkit_compute_duration_seconds",
			Help:    "Full recompute cycle latency (clear + compute + route)",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		ActivePanes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartkit_active_panes",
			Help: "Number of panes currently on the chart",
		}),
		OverlayObjects: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chartkit_overlay_objects",
			Help: "Live overlay registrations by kind",
		}, []string{"kind"}),

		BarsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartkit_bars_ingested_total",
			Help: "Bars read from SQLite history or the Redis live stream",
		}),
		SQLiteCommitDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartkit_sqlite_commit_duration_seconds",
			Help:    "SQLite batch commit latency",
			Buckets: prometheus.DefBuckets,
		}),
		RedisReadDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartkit_redis_read_duration_seconds",
			Help:    "Redis stream read latency",
			Buckets: prometheus.DefBuckets,
		}),

		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartkit_ws_clients",
			Help: "Connected WebSocket clients",
		}),
		SnapshotBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartkit_snapshot_bytes",
			Help:    "Size of encoded scene snapshots",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		}),
		SnapshotsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartkit_snapshots_sent_total",
			Help: "Scene snapshots broadcast to clients",
		}),
	}

	prometheus.MustRegister(
		m.RecomputesTotal,
		m.ComputeErrors,
		m.ComputeDur,
		m.ActivePanes,
		m.OverlayObjects,
		m.BarsIngested,
		m.SQLiteCommitDur,
		m.RedisReadDur,
		m.WSClients,
		m.SnapshotBytes,
		m.SnapshotsSent,
	)

	return m
}

// HealthStatus represents the chart server's health.
type HealthStatus struct {
	mu sync.RWMutex

	RedisConnected bool      `json:"redis_connected"`
	SQLiteOK       bool      `json:"sqlite_ok"`
	LastBarTime    time.Time `json:"last_bar_time"`
	Indicator      string    `json:"indicator"`
	EngineState    string    `json:"engine_state"`

	RedisLatencyMs  float64   `json:"redis_latency_ms"`
	SQLiteLatencyMs float64   `json:"sqlite_latency_ms"`
	LastCheckAt     time.Time `json:"last_check_at"`
	StartedAt       time.Time `json:"started_at"`
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt: time.Now(),
	}
}

func (h *HealthStatus) SetLastBarTime(t time.Time) {
	h.mu.Lock()
	h.LastBarTime = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetEngineState(indicator, state string) {
	h.mu.Lock()
	h.Indicator = indicator
	h.EngineState = state
	h.mu.Unlock()
}

// CheckRedis pings Redis and records latency + connectivity.
func (h *HealthStatus) CheckRedis(ctx context.Context, rdb *goredis.Client) {
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start)

	h.mu.Lock()
	h.RedisConnected = err == nil
	h.RedisLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// CheckSQLite runs a trivial query and records latency + health.
func (h *HealthStatus) CheckSQLite(ctx context.Context, db *sql.DB) {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	h.mu.Lock()
	h.SQLiteOK = err == nil
	h.SQLiteLatencyMs = float64(latency.Microseconds()) / 1000.0
	h.LastCheckAt = time.Now()
	h.mu.Unlock()
}

// StartLivenessChecker runs periodic dependency checks.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, rdb *goredis.Client, sqlDB *sql.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				if rdb != nil {
					h.CheckRedis(probeCtx, rdb)
				}
				if sqlDB != nil {
					h.CheckSQLite(probeCtx, sqlDB)
				}
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overallStatus := "healthy"
	httpCode := http.StatusOK
	if !h.SQLiteOK {
		overallStatus = "degraded"
		httpCode = http.StatusServiceUnavailable
	}

	barAge := ""
	if !h.LastBarTime.IsZero() {
		barAge = time.Since(h.LastBarTime).Round(time.Millisecond).String()
	}

	status := struct {
		Status          string  `json:"status"`
		Uptime          string  `json:"uptime"`
		RedisConnected  bool    `json:"redis_connected"`
		RedisLatencyMs  float64 `json:"redis_latency_ms"`
		SQLiteOK        bool    `json:"sqlite_ok"`
		SQLiteLatencyMs float64 `json:"sqlite_latency_ms"`
		LastBarTime     string  `json:"last_bar_time"`
		BarAge          string  `json:"bar_age"`
		Indicator       string  `json:"indicator"`
		EngineState     string  `json:"engine_state"`
		LastCheckAt     string  `json:"last_check_at"`
	}{
		Status:          overallStatus,
		Uptime:          time.Since(h.StartedAt).Round(time.Second).String(),
		RedisConnected:  h.RedisConnected,
		RedisLatencyMs:  h.RedisLatencyMs,
		SQLiteOK:        h.SQLiteOK,
		SQLiteLatencyMs: h.SQLiteLatencyMs,
		LastBarTime:     h.LastBarTime.Format(time.RFC3339),
		BarAge:          barAge,
		Indicator:       h.Indicator,
		EngineState:     h.EngineState,
		LastCheckAt:     h.LastCheckAt.Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if httpCode != http.StatusOK {
		w.WriteHeader(httpCode)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	health *HealthStatus
	addr   string
	srv    *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.ServeHTTP)

	return &Server{
		health: health,
		addr:   addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
