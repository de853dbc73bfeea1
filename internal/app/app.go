// Package app wires the chart server together: SQLite history, the live
// Redis bar feed, the dispatch engine and scene host, and the WebSocket
// gateway. All chart state is touched from a single event loop; the bus and
// the live feed hand their work to that loop instead of mutating directly.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/asaskevich/EventBus"

	"chartkit/config"
	"chartkit/internal/barbuf"
	"chartkit/internal/chart"
	"chartkit/internal/dispatch"
	"chartkit/internal/gateway"
	"chartkit/internal/logger"
	"chartkit/internal/metrics"
	"chartkit/internal/model"
	"chartkit/internal/scene"
	redisstore "chartkit/internal/store/redis"
	"chartkit/internal/store/sqlite"
)

// App is the assembled chart server.
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	prom   *metrics.Metrics
	health *metrics.HealthStatus

	bus    EventBus.Bus
	host   *scene.Host
	mgr    *chart.Manager
	engine *dispatch.Engine
	hub    *gateway.Hub

	history *sqlite.Reader
	store   *sqlite.Writer
	live    *redisstore.Reader

	ring *barbuf.Ring
	wake chan struct{}
	cmds chan func()

	httpSrv    *http.Server
	metricsSrv *metrics.Server
}

// New builds the app from config. Redis is optional: without it the server
// renders history only.
func New(cfg *config.Config) (*App, error) {
	log := logger.Init("chartserver", cfg.SlogLevel())
	prom := metrics.NewMetrics()
	health := metrics.NewHealthStatus()

	host := scene.NewHost()
	host.Resize(float64(cfg.ChartWidth), float64(cfg.ChartHeight))
	mgr := chart.NewManager(host)
	engine := dispatch.NewEngine(mgr, log, prom)

	bus := EventBus.New()
	hub := gateway.NewHub(bus, log, prom)

	history, err := sqlite.NewReader(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	store, err := sqlite.New(sqlite.WriterConfig{
		DBPath: cfg.SQLitePath,
		Symbol: cfg.Symbol,
		TF:     cfg.TF,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	live, err := redisstore.NewReader(redisstore.ReaderConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Symbol:   cfg.Symbol,
		TF:       cfg.TF,
	})
	if err != nil {
		log.Warn("redis unavailable, serving history only", slog.Any("error", err))
		live = nil
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		prom:    prom,
		health:  health,
		bus:     bus,
		host:    host,
		mgr:     mgr,
		engine:  engine,
		hub:     hub,
		history: history,
		store:   store,
		live:    live,
		ring:    barbuf.New(1024),
		wake:    make(chan struct{}, 1),
		cmds:    make(chan func(), 64),
	}

	if err := a.subscribe(); err != nil {
		return nil, fmt.Errorf("bus subscribe: %w", err)
	}

	mux := http.NewServeMux()
	gateway.RegisterRoutes(mux, hub)
	a.httpSrv = &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	a.metricsSrv = metrics.NewServer(cfg.MetricsAddr, health)

	return a, nil
}

// subscribe routes gateway commands onto the event loop. Bus callbacks run
// on the publishing client's goroutine, so they only enqueue closures.
func (a *App) subscribe() error {
	subs := map[string]interface{}{
		gateway.TopicSelect: func(cmd gateway.SelectCmd) {
			a.do(func() {
				if err := a.engine.Select(cmd.Indicator); err != nil {
					a.log.Warn("select rejected",
						slog.String("indicator", cmd.Indicator),
						slog.String("client_id", cmd.ClientID),
					)
					return
				}
				a.saveSession()
			})
		},
		gateway.TopicInput: func(cmd gateway.InputCmd) {
			a.do(func() {
				a.engine.SetInput(cmd.Name, cmd.Value)
				a.saveSession()
			})
		},
		gateway.TopicClear: func() {
			a.do(func() { a.engine.ClearSelection() })
		},
		gateway.TopicResize: func(cmd gateway.ResizeCmd) {
			a.do(func() { a.host.Resize(float64(cmd.Width), float64(cmd.Height)) })
		},
		gateway.TopicVisibleRange: func(cmd gateway.RangeCmd) {
			a.do(func() { a.host.SetVisibleRange(float64(cmd.From), float64(cmd.To)) })
		},
	}
	for topic, fn := range subs {
		if err := a.bus.Subscribe(topic, fn); err != nil {
			return err
		}
	}
	return nil
}

// do enqueues work for the event loop, dropping it if the loop is gone.
func (a *App) do(fn func()) {
	select {
	case a.cmds <- fn:
	default:
		a.log.Warn("command queue full, dropping command")
	}
}

// Run loads history, starts the servers and the live follower, then drives
// the event loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	bars, err := a.history.ReadLastBars(a.cfg.Symbol, a.cfg.TF, a.cfg.HistoryBars)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	a.log.Info("history loaded",
		slog.String("symbol", a.cfg.Symbol),
		slog.String("tf", a.cfg.TF),
		slog.Int("bars", len(bars)),
	)
	a.prom.BarsIngested.Add(float64(len(bars)))
	a.engine.SetBars(bars)
	if len(bars) > 0 {
		a.health.SetLastBarTime(time.Unix(bars[len(bars)-1].Time, 0))
	}

	a.restoreSession()
	a.publishScene()

	a.metricsSrv.Start()
	go func() {
		a.log.Info("gateway listening", slog.String("addr", a.cfg.HTTPAddr))
		if err := a.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("gateway server error", slog.Any("error", err))
		}
	}()

	if a.live != nil {
		go a.followLive(ctx)
		a.health.StartLivenessChecker(ctx, a.live.Client(), a.store.DB(), 15*time.Second)
	} else {
		a.health.StartLivenessChecker(ctx, nil, a.store.DB(), 15*time.Second)
	}

	for {
		select {
		case <-ctx.Done():
			return a.shutdown()

		case fn := <-a.cmds:
			fn()
			// Drain whatever else queued up before re-rendering once.
			for {
				select {
				case fn := <-a.cmds:
					fn()
					continue
				default:
				}
				break
			}
			a.publishScene()

		case <-a.wake:
			for _, bar := range a.ring.Drain() {
				a.engine.AppendBar(bar)
				a.prom.BarsIngested.Inc()
				a.health.SetLastBarTime(time.Unix(bar.Time, 0))
			}
			a.publishScene()
		}
	}
}

// followLive pumps the Redis stream into the ring buffer and nudges the
// event loop.
func (a *App) followLive(ctx context.Context) {
	barCh := make(chan model.Bar, 64)
	go func() {
		if err := a.live.Follow(ctx, barCh); err != nil && ctx.Err() == nil {
			a.log.Error("live feed stopped", slog.Any("error", err))
		}
		close(barCh)
	}()

	for bar := range barCh {
		if !a.ring.Push(bar) {
			a.log.Warn("bar ring full, dropping live bar", slog.Int64("ts", bar.Time))
		}
		select {
		case a.wake <- struct{}{}:
		default:
		}
	}
}

// publishScene encodes and broadcasts the scene if anything changed, then
// refreshes the state gauges.
func (a *App) publishScene() {
	if !a.host.Dirty() {
		return
	}
	snap, err := a.host.SnapshotJSON()
	if err != nil {
		a.log.Error("scene encode failed", slog.Any("error", err))
		return
	}
	a.hub.BroadcastSnapshot(snap)
	a.prom.ActivePanes.Set(float64(a.host.PaneCount()))

	name := ""
	if def := a.engine.Selection(); def != nil {
		name = def.Name
	}
	a.health.SetEngineState(name, string(a.engine.State()))
}

// restoreSession re-applies the last saved selection, falling back to the
// configured default indicator.
func (a *App) restoreSession() {
	sess, err := a.history.ReadLatestSession()
	if err != nil {
		a.log.Warn("session restore failed", slog.Any("error", err))
	}
	if sess != nil && sess.Indicator != "" {
		if err := a.engine.Select(sess.Indicator); err == nil {
			for name, value := range sess.Inputs {
				a.engine.SetInput(name, value)
			}
			a.log.Info("session restored", slog.String("indicator", sess.Indicator))
			return
		}
	}
	if a.cfg.DefaultIndicator != "" {
		if err := a.engine.Select(a.cfg.DefaultIndicator); err != nil {
			a.log.Warn("default indicator unknown",
				slog.String("indicator", a.cfg.DefaultIndicator),
			)
		}
	}
}

// saveSession persists the current selection for restart recovery.
func (a *App) saveSession() {
	def := a.engine.Selection()
	if def == nil {
		return
	}
	err := a.store.SaveSession(&sqlite.Session{
		Symbol:    a.cfg.Symbol,
		TF:        a.cfg.TF,
		Indicator: def.Name,
		Inputs:    a.engine.Inputs(),
	})
	if err != nil {
		a.log.Warn("session save failed", slog.Any("error", err))
	}
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.httpSrv.Shutdown(shutdownCtx)
	a.metricsSrv.Stop(shutdownCtx)
	if a.live != nil {
		a.live.Close()
	}
	a.store.Close()
	a.history.Close()
	a.log.Info("shutdown complete")
	return nil
}
