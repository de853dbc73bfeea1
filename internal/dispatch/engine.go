// Package dispatch consumes indicator results and routes them to the chart
// manager's display operations. One engine drives one chart; every recompute
// starts from a blank slate: overlays are torn down unconditionally before
// the indicator function runs, so a failed computation leaves a blank pane,
// never a corrupted partial render.
package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"chartkit/internal/chart"
	"chartkit/internal/indicator"
	"chartkit/internal/metrics"
	"chartkit/internal/model"
)

// State is the engine's lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateSelected  State = "selected"
	StateComputing State = "computing"
	StateRendered  State = "rendered"
	StateError     State = "error"
)

// secondaryPane is the pane all non-overlay indicator plots share.
const secondaryPane = 1

// Engine is the dispatch/recalculation engine. It is single-goroutine like
// the manager beneath it; callers serialize access through one event loop.
type Engine struct {
	chart *chart.Manager
	log   *slog.Logger
	prom  *metrics.Metrics // optional

	bars   []model.Bar
	sel    *indicator.Definition
	inputs indicator.Inputs
	state  State
}

// NewEngine creates an engine on top of a chart manager. prom may be nil.
func NewEngine(mgr *chart.Manager, log *slog.Logger, prom *metrics.Metrics) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		chart: mgr,
		log:   log,
		prom:  prom,
		state: StateIdle,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State { return e.state }

// Selection returns the selected indicator definition, or nil.
func (e *Engine) Selection() *indicator.Definition { return e.sel }

// Inputs returns the current input values of the selection.
func (e *Engine) Inputs() indicator.Inputs { return e.inputs }

// SetBars replaces the bar data, re-establishes the primary candlestick
// series and recomputes the current selection. Empty bars clear everything.
func (e *Engine) SetBars(bars []model.Bar) {
	e.bars = bars
	if len(bars) == 0 {
		e.chart.ClearIndicators()
		e.state = StateIdle
		return
	}
	e.chart.SetCandlestickData(bars)
	e.Recalculate()
}

// AppendBar adds a live bar (or replaces the forming bar at the same time)
// and recomputes.
func (e *Engine) AppendBar(bar model.Bar) {
	if n := len(e.bars); n > 0 && e.bars[n-1].Time == bar.Time {
		bars := make([]model.Bar, n)
		copy(bars, e.bars)
		bars[n-1] = bar
		e.bars = bars
	} else {
		e.bars = append(e.bars[:len(e.bars):len(e.bars)], bar)
	}
	e.chart.SetCandlestickData(e.bars)
	e.Recalculate()
}

// Select switches the selection to a registered indicator with its default
// inputs and recomputes.
func (e *Engine) Select(name string) error {
	def, ok := indicator.Get(name)
	if !ok {
		return fmt.Errorf("unknown indicator %q", name)
	}
	e.sel = def
	e.inputs = def.DefaultInputs()
	e.state = StateSelected
	e.Recalculate()
	return nil
}

// SetInput edits one input of the current selection and recomputes.
func (e *Engine) SetInput(name string, value any) {
	if e.sel == nil {
		return
	}
	if e.inputs == nil {
		e.inputs = indicator.Inputs{}
	}
	e.inputs[name] = value
	e.Recalculate()
}

// ClearSelection drops the selection and all overlays.
func (e *Engine) ClearSelection() {
	e.sel = nil
	e.inputs = nil
	e.chart.ClearIndicators()
	e.state = StateIdle
}

// Recalculate runs one full recompute cycle: teardown, compute, route.
func (e *Engine) Recalculate() {
	e.chart.ClearIndicators()
	if e.sel == nil || len(e.bars) == 0 {
		e.state = StateIdle
		return
	}

	e.state = StateComputing
	start := time.Now()
	res, err := e.compute()
	if err != nil {
		// Overlays were already cleared: the user sees a blank pane plus
		// this log entry, never a partial render.
		e.state = StateError
		e.log.Error("indicator computation failed",
			slog.String("indicator", e.sel.Name),
			slog.Any("error", err),
		)
		if e.prom != nil {
			e.prom.ComputeErrors.Inc()
		}
		return
	}

	e.render(res)
	e.state = StateRendered
	if e.prom != nil {
		e.prom.RecomputesTotal.Inc()
		e.prom.ComputeDur.Observe(time.Since(start).Seconds())
	}
}

// compute calls the indicator function, converting panics into errors at
// this boundary. The function is opaque third-party code.
func (e *Engine) compute() (res *model.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("indicator %s panicked: %v", e.sel.Name, r)
		}
	}()
	return e.sel.Compute(e.bars, e.inputs)
}

// render routes one result to the display operations.
func (e *Engine) render(res *model.Result) {
	if res == nil {
		return
	}
	pane := 0
	if !e.sel.Overlay {
		pane = secondaryPane
	}

	for _, spec := range e.sel.Plots {
		pts := res.Plot(spec.ID)
		if len(pts) == 0 {
			continue
		}
		if !plotVisible(spec, pts, e.inputs, res) {
			continue
		}
		resolveStrategy(spec.Style).render(e.chart, spec.ID, pts, chart.SeriesConfig{
			Title:   spec.Title,
			Color:   spec.Color,
			Width:   spec.Width,
			Overlay: e.sel.Overlay,
			Pane:    pane,
		})
	}

	if len(res.HLines) > 0 {
		e.chart.SetHLines(res.HLines, pane)
	}
	if len(res.HLineFills) > 0 {
		e.chart.SetFills(res.HLineFills, res.HLines, pane)
	}
	if len(res.PlotFills) > 0 {
		e.chart.SetPlotFills(res.PlotFills, res.Plots, pane)
	}
	if len(res.Markers) > 0 {
		e.chart.SetMarkers(res.Markers)
	}
	if len(res.BarColors) > 0 {
		e.chart.SetBarColors(res.BarColors)
	}
	if len(res.BgColors) > 0 {
		e.chart.SetBgColors(res.BgColors)
	}
	for id, candles := range res.PlotCandles {
		e.chart.SetCandlePlotData(id, candles, chart.SeriesConfig{
			Overlay: e.sel.Overlay,
			Pane:    pane,
		})
	}
	if len(res.Labels) > 0 {
		e.chart.SetLabels(res.Labels)
	}
	if len(res.Lines) > 0 {
		e.chart.SetLineDrawings(res.Lines)
	}
	if len(res.Boxes) > 0 {
		e.chart.SetBoxes(res.Boxes)
	}
	if len(res.Tables) > 0 {
		// At most one table is displayed; extra entries are ignored.
		e.chart.SetTable(res.Tables[0], pane)
	}
}
