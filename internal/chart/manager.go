package chart

import (
	"fmt"

	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

// Kind partitions the registry by display capability. Together with an id it
// identifies exactly one live overlay object.
type Kind string

const (
	KindIndicator  Kind = "indicator"
	KindCandlePlot Kind = "candleplot"
	KindCross      Kind = "cross"
	KindLineBreak  Kind = "linebr"
	KindMarkers    Kind = "markers"
	KindExtMarkers Kind = "extmarkers"
	KindBgColors   Kind = "bgcolors"
	KindLabels     Kind = "labels"
	KindLines      Kind = "lines"
	KindBoxes      Kind = "boxes"
	KindHLine      Kind = "hline"
	KindFill       Kind = "fill"
	KindPlotFill   Kind = "plotfill"
	KindTable      Kind = "table"
)

// singleID is the fixed id of single-instance display kinds.
const singleID = "main"

type regKey struct {
	kind Kind
	id   string
}

// registration is one live overlay object: a series, an anchored
// series+primitive pair, or a table handle, plus the pane it occupies.
// Invariant: at most one registration per (kind, id).
type registration struct {
	series Series
	anchor *anchored
	table  TableHandle
	pane   int
}

// SeriesConfig is the per-id configuration of a multi-instance overlay.
type SeriesConfig struct {
	Title   string
	Color   string
	Width   float64
	Style   model.LineStyle
	Stepped bool

	// MarkersOnly shows point markers without a connecting line.
	MarkersOnly bool

	// Overlay renders into the primary price pane (pane 0).
	Overlay bool

	// Pane forces a pane index when positive; 0 allocates the lowest unused
	// index (unless Overlay).
	Pane int
}

// Manager orchestrates panes, series, anchors and primitives on a single
// host chart. One operation per display capability, each idempotent under
// repeated calls with a stable id: the first call creates backing resources
// and records their pane, later calls only replace data. Operations return
// Outcomes and never fail loudly; correctness of call order is the caller's
// responsibility.
//
// The manager is confined to a single goroutine and holds no locks.
type Manager struct {
	host Host

	regs map[regKey]*registration

	candle     Series
	bars       []model.Bar
	candles    []model.CandlePoint
	timeIndex  map[int64]int
	origColors []string // frozen at SetCandlestickData, sole restore source
}

// NewManager creates a manager on top of a host chart.
func NewManager(host Host) *Manager {
	return &Manager{
		host: host,
		regs: make(map[regKey]*registration),
	}
}

// Bars returns the shared read-only bar slice.
func (m *Manager) Bars() []model.Bar { return m.bars }

// SetCandlestickData establishes the primary candlestick series in pane 0
// and snapshots its original colors. The snapshot is the only valid source
// for restoring default colors later.
func (m *Manager) SetCandlestickData(bars []model.Bar) Outcome {
	if len(bars) == 0 {
		return OutcomeSkipped
	}
	m.bars = bars
	m.timeIndex = make(map[int64]int, len(bars))
	m.candles = make([]model.CandlePoint, len(bars))
	m.origColors = make([]string, len(bars))
	for i, b := range bars {
		m.timeIndex[b.Time] = i
		m.candles[i] = model.CandlePoint{
			Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close,
		}
	}

	if m.candle == nil {
		m.candle = m.host.AddSeries(SeriesCandlestick, SeriesOptions{Visible: true})
		m.candle.SetCandles(m.candles)
		return OutcomeCreated
	}
	m.candle.SetCandles(m.candles)
	return OutcomeUpdated
}

// SetIndicatorData displays an id-keyed line plot (plain, stepped or
// markers-only depending on cfg).
func (m *Manager) SetIndicatorData(id string, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	return m.setSeries(KindIndicator, id, SeriesLine, pts, cfg)
}

// SetAreaPlotData displays an id-keyed area plot.
func (m *Manager) SetAreaPlotData(id string, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	return m.setSeries(KindIndicator, id, SeriesArea, pts, cfg)
}

// SetHistogramData displays an id-keyed histogram plot.
func (m *Manager) SetHistogramData(id string, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	return m.setSeries(KindIndicator, id, SeriesHistogram, pts, cfg)
}

// SetCrossPlotData displays an id-keyed cross-marker plot through the cross
// primitive on an anchor series.
func (m *Manager) SetCrossPlotData(id string, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	data := primitive.CrossData{Points: pts, Color: cfg.Color, Width: cfg.Width}
	k := regKey{KindCross, id}
	if reg, ok := m.regs[k]; ok {
		reg.anchor.setPoints(anchorPoints(pts))
		reg.anchor.prim.(*primitive.Cross).SetData(data)
		return OutcomeUpdated
	}
	prim := primitive.NewCross()
	pane := m.resolvePane(cfg)
	anchor := newAnchor(m.host, pane, anchorPoints(pts), prim)
	prim.SetData(data)
	m.regs[k] = &registration{anchor: anchor, pane: pane}
	return OutcomeCreated
}

// SetLineBrData displays an id-keyed line-break plot (optionally stepped)
// through the line-break primitive on an anchor series.
func (m *Manager) SetLineBrData(id string, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	data := primitive.LineBreakData{
		Points: pts, Color: cfg.Color, Width: cfg.Width,
		Style: cfg.Style, Stepped: cfg.Stepped,
	}
	k := regKey{KindLineBreak, id}
	if reg, ok := m.regs[k]; ok {
		reg.anchor.setPoints(anchorPoints(pts))
		reg.anchor.prim.(*primitive.LineBreak).SetData(data)
		return OutcomeUpdated
	}
	prim := primitive.NewLineBreak()
	pane := m.resolvePane(cfg)
	anchor := newAnchor(m.host, pane, anchorPoints(pts), prim)
	prim.SetData(data)
	m.regs[k] = &registration{anchor: anchor, pane: pane}
	return OutcomeCreated
}

// SetBarColors recolors the primary candles by bar time over the pristine
// snapshot. Unmatched times keep their snapshot color.
func (m *Manager) SetBarColors(colors []model.BarColor) Outcome {
	if m.candle == nil || len(m.bars) == 0 {
		return OutcomeSkipped
	}
	next := make([]string, len(m.origColors))
	copy(next, m.origColors)
	for _, c := range colors {
		if i, ok := m.timeIndex[c.Time]; ok {
			next[i] = c.Color
		}
	}
	for i := range m.candles {
		m.candles[i].Color = next[i]
	}
	m.candle.SetCandles(m.candles)
	return OutcomeUpdated
}

// ClearBarColors restores the snapshot taken at the most recent
// SetCandlestickData, exactly.
func (m *Manager) ClearBarColors() Outcome {
	if m.candle == nil || len(m.bars) == 0 {
		return OutcomeSkipped
	}
	for i := range m.candles {
		m.candles[i].Color = m.origColors[i]
	}
	m.candle.SetCandles(m.candles)
	return OutcomeUpdated
}

// SetBgColors paints full-height background stripes behind the given bars on
// the primary pane. Single-instance: a prior background is cleared first.
func (m *Manager) SetBgColors(colors []model.BgColor) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindBgColors, singleID)
	if len(colors) == 0 {
		return OutcomeRemoved
	}

	// Representative anchor data: the close of each colored bar.
	pts := make([]model.PlotPoint, 0, len(colors))
	for _, c := range colors {
		if i, ok := m.timeIndex[c.Time]; ok {
			pts = append(pts, model.PlotPoint{Time: c.Time, Value: m.bars[i].Close})
		}
	}
	prim := primitive.NewBackground()
	anchor := newAnchor(m.host, 0, pts, prim)
	prim.SetData(primitive.BackgroundData{Colors: colors})
	m.regs[regKey{KindBgColors, singleID}] = &registration{anchor: anchor, pane: 0}
	return OutcomeCreated
}

// SetCandlePlotData displays a named overlay candle sub-series. The prior
// instance for the id is always cleared before the new one is created.
func (m *Manager) SetCandlePlotData(id string, candles []model.CandlePoint, cfg SeriesConfig) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindCandlePlot, id)
	if len(candles) == 0 {
		return OutcomeRemoved
	}
	pane := m.resolvePane(cfg)
	s := m.host.AddSeries(SeriesCandlestick, SeriesOptions{Title: cfg.Title, Visible: true})
	if pane > 0 {
		s.MoveToPane(pane)
	}
	s.SetCandles(candles)
	m.regs[regKey{KindCandlePlot, id}] = &registration{series: s, pane: pane}
	return OutcomeCreated
}

// SetMarkers displays the result's markers. Shapes in the host's built-in
// allow-list go to the primary series' native marker mechanism; everything
// else is routed to the extended-marker primitive on its own anchor.
// Single-instance: prior markers of both routes are cleared first.
func (m *Manager) SetMarkers(markers []model.MarkerSpec) Outcome {
	if m.candle == nil || len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindMarkers, singleID)
	m.clearOne(KindExtMarkers, singleID)
	if len(markers) == 0 {
		return OutcomeRemoved
	}

	var builtin, extended []model.MarkerSpec
	for _, mk := range markers {
		if mk.Shape.Builtin() {
			builtin = append(builtin, mk)
		} else {
			extended = append(extended, mk)
		}
	}

	if len(builtin) > 0 {
		m.candle.SetMarkers(builtin)
		m.regs[regKey{KindMarkers, singleID}] = &registration{pane: 0}
	}
	if len(extended) > 0 {
		pts := make([]model.PlotPoint, 0, len(extended))
		for _, mk := range extended {
			if i, ok := m.timeIndex[mk.Time]; ok {
				pts = append(pts, model.PlotPoint{Time: mk.Time, Value: markerAnchorPrice(m.bars[i], mk.Position)})
			}
		}
		prim := primitive.NewMarker()
		anchor := newAnchor(m.host, 0, pts, prim)
		prim.SetData(primitive.MarkerData{Markers: extended})
		m.regs[regKey{KindExtMarkers, singleID}] = &registration{anchor: anchor, pane: 0}
	}
	return OutcomeCreated
}

// SetLabels displays text labels through the label primitive.
// Single-instance.
func (m *Manager) SetLabels(labels []model.LabelSpec) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindLabels, singleID)
	if len(labels) == 0 {
		return OutcomeRemoved
	}
	pts := make([]model.PlotPoint, len(labels))
	for i, lb := range labels {
		pts[i] = model.PlotPoint{Time: lb.Time, Value: lb.Price}
	}
	prim := primitive.NewLabel()
	anchor := newAnchor(m.host, 0, pts, prim)
	prim.SetData(primitive.LabelData{Labels: labels})
	m.regs[regKey{KindLabels, singleID}] = &registration{anchor: anchor, pane: 0}
	return OutcomeCreated
}

// SetLineDrawings displays two-point line drawings through the line-drawing
// primitive. Single-instance.
func (m *Manager) SetLineDrawings(lines []model.LineSpec) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindLines, singleID)
	if len(lines) == 0 {
		return OutcomeRemoved
	}
	pts := make([]model.PlotPoint, 0, 2*len(lines))
	for _, ln := range lines {
		pts = append(pts,
			model.PlotPoint{Time: ln.Time1, Value: ln.Price1},
			model.PlotPoint{Time: ln.Time2, Value: ln.Price2},
		)
	}
	prim := primitive.NewLineDraw()
	anchor := newAnchor(m.host, 0, pts, prim)
	prim.SetData(primitive.LineDrawData{Lines: lines})
	m.regs[regKey{KindLines, singleID}] = &registration{anchor: anchor, pane: 0}
	return OutcomeCreated
}

// SetBoxes displays corner-to-corner boxes through the box primitive.
// Single-instance.
func (m *Manager) SetBoxes(boxes []model.BoxSpec) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindBoxes, singleID)
	if len(boxes) == 0 {
		return OutcomeRemoved
	}
	pts := make([]model.PlotPoint, 0, 2*len(boxes))
	for _, bx := range boxes {
		pts = append(pts,
			model.PlotPoint{Time: bx.Time1, Value: bx.Price1},
			model.PlotPoint{Time: bx.Time2, Value: bx.Price2},
		)
	}
	prim := primitive.NewBox()
	anchor := newAnchor(m.host, 0, pts, prim)
	prim.SetData(primitive.BoxData{Boxes: boxes})
	m.regs[regKey{KindBoxes, singleID}] = &registration{anchor: anchor, pane: 0}
	return OutcomeCreated
}

// SetTable displays a table overlay in the given pane. Single-instance.
func (m *Manager) SetTable(spec model.TableSpec, pane int) Outcome {
	if len(spec.Rows) == 0 {
		return OutcomeSkipped
	}
	m.clearOne(KindTable, singleID)
	handle := m.host.CreateTable(spec, pane)
	m.regs[regKey{KindTable, singleID}] = &registration{table: handle, pane: pane}
	return OutcomeCreated
}

// SetHLines displays static horizontal reference lines as two-point series
// spanning the first and last bar times. Prior reference lines are cleared
// first.
func (m *Manager) SetHLines(hlines []model.HLineSpec, pane int) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearAll(KindHLine)
	if len(hlines) == 0 {
		return OutcomeRemoved
	}
	t0 := m.bars[0].Time
	tn := m.bars[len(m.bars)-1].Time
	for i, hl := range hlines {
		s := m.host.AddSeries(SeriesLine, SeriesOptions{
			Title: hl.Title, Color: hl.Color, Width: lineOrDefault(hl.Width),
			Style: hl.Style, Visible: true,
		})
		if pane > 0 {
			s.MoveToPane(pane)
		}
		s.SetData([]model.PlotPoint{
			{Time: t0, Value: hl.Price},
			{Time: tn, Value: hl.Price},
		})
		m.regs[regKey{KindHLine, hlineID(hl, i)}] = &registration{series: s, pane: pane}
	}
	return OutcomeCreated
}

// SetFills displays filled bands between pairs of reference lines. Prior
// bands are cleared first.
func (m *Manager) SetFills(fills []model.HLineFillSpec, hlines []model.HLineSpec, pane int) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearAll(KindFill)
	if len(fills) == 0 {
		return OutcomeRemoved
	}
	prices := make(map[string]float64, len(hlines))
	for i, hl := range hlines {
		prices[hlineID(hl, i)] = hl.Price
	}

	created := false
	for i, f := range fills {
		p1, ok1 := prices[f.HLine1]
		p2, ok2 := prices[f.HLine2]
		if !ok1 || !ok2 {
			continue
		}
		upper, lower := p1, p2
		if lower > upper {
			upper, lower = lower, upper
		}
		rows := make([]primitive.PlotFillRow, len(m.bars))
		for j, b := range m.bars {
			rows[j] = primitive.PlotFillRow{Time: b.Time, Upper: upper, Lower: lower}
		}
		prim := primitive.NewPlotFill()
		anchor := newCandleAnchor(m.host, pane, bandAnchor(m.bars, upper, lower), prim)
		prim.SetData(primitive.PlotFillData{
			Rows:  rows,
			Color: model.ResolveFillColor(f.Color, f.Transp),
		})
		m.regs[regKey{KindFill, fmt.Sprintf("%s:%s:%d", f.HLine1, f.HLine2, i)}] = &registration{anchor: anchor, pane: pane}
		created = true
	}
	if !created {
		return OutcomeSkipped
	}
	return OutcomeCreated
}

// SetPlotFills displays filled bands between pairs of named plots. For each
// spec the two plots are time-joined, bars where either side is missing are
// dropped, and the band is rendered through the plot-fill primitive. Prior
// plot fills are cleared first.
func (m *Manager) SetPlotFills(specs []model.PlotFillSpec, plots map[string][]model.PlotPoint, pane int) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	m.clearAll(KindPlotFill)
	if len(specs) == 0 {
		return OutcomeRemoved
	}

	created := false
	for i, spec := range specs {
		rows := joinPlots(plots[spec.Plot1], plots[spec.Plot2])
		if len(rows) == 0 {
			continue
		}
		anchor := make([]model.CandlePoint, len(rows))
		for j, r := range rows {
			anchor[j] = model.CandlePoint{
				Time: r.Time, Open: r.Lower, Close: r.Upper, High: r.Upper, Low: r.Lower,
			}
		}
		prim := primitive.NewPlotFill()
		a := newCandleAnchor(m.host, pane, anchor, prim)
		prim.SetData(primitive.PlotFillData{
			Rows:  rows,
			Color: model.ResolveFillColor(spec.Color, spec.Transp),
		})
		m.regs[regKey{KindPlotFill, fmt.Sprintf("%s:%s:%d", spec.Plot1, spec.Plot2, i)}] = &registration{anchor: a, pane: pane}
		created = true
	}
	if !created {
		return OutcomeSkipped
	}
	return OutcomeCreated
}

// RemoveIndicator tears down every overlay registered under the id, across
// all kinds.
func (m *Manager) RemoveIndicator(id string) Outcome {
	removed := false
	for k := range m.regs {
		if k.id == id {
			m.release(k)
			removed = true
		}
	}
	if !removed {
		return OutcomeNoOp
	}
	return OutcomeRemoved
}

// ClearIndicators tears down every overlay, restores the original bar
// colors, and reclaims empty panes scanning from the highest index down to
// (excluding) the primary pane.
func (m *Manager) ClearIndicators() Outcome {
	for k := range m.regs {
		m.release(k)
	}
	m.ClearBarColors()

	for i := m.host.PaneCount() - 1; i > 0; i-- {
		if m.host.SeriesInPane(i) == 0 {
			m.host.RemovePane(i)
		}
	}
	return OutcomeRemoved
}

// NextPaneIndex returns the smallest positive pane index not currently
// assigned to a registration.
func (m *Manager) NextPaneIndex() int {
	used := make(map[int]bool, len(m.regs))
	for _, reg := range m.regs {
		used[reg.pane] = true
	}
	i := 1
	for used[i] {
		i++
	}
	return i
}

// ---- internals ----

func (m *Manager) setSeries(kind Kind, id string, st SeriesType, pts []model.PlotPoint, cfg SeriesConfig) Outcome {
	if len(m.bars) == 0 {
		return OutcomeSkipped
	}
	k := regKey{kind, id}
	if reg, ok := m.regs[k]; ok {
		reg.series.SetData(pts)
		return OutcomeUpdated
	}
	pane := m.resolvePane(cfg)
	s := m.host.AddSeries(st, SeriesOptions{
		Title: cfg.Title, Color: cfg.Color, Width: lineOrDefault(cfg.Width),
		Style: cfg.Style, Stepped: cfg.Stepped, MarkersOnly: cfg.MarkersOnly,
		Visible: true,
	})
	if pane > 0 {
		s.MoveToPane(pane)
	}
	s.SetData(pts)
	m.regs[k] = &registration{series: s, pane: pane}
	return OutcomeCreated
}

func (m *Manager) resolvePane(cfg SeriesConfig) int {
	if cfg.Overlay {
		return 0
	}
	if cfg.Pane > 0 {
		return cfg.Pane
	}
	return m.NextPaneIndex()
}

// release frees the backing resources of one registration and drops it.
func (m *Manager) release(k regKey) {
	reg, ok := m.regs[k]
	if !ok {
		return
	}
	switch {
	case reg.table != nil:
		reg.table.Remove()
	case reg.anchor != nil:
		reg.anchor.release(m.host)
	case reg.series != nil:
		m.host.RemoveSeries(reg.series)
	case k.kind == KindMarkers:
		if m.candle != nil {
			m.candle.SetMarkers(nil)
		}
	}
	delete(m.regs, k)
}

func (m *Manager) clearOne(kind Kind, id string) {
	m.release(regKey{kind, id})
}

func (m *Manager) clearAll(kind Kind) {
	for k := range m.regs {
		if k.kind == kind {
			m.release(k)
		}
	}
}

func hlineID(hl model.HLineSpec, i int) string {
	if hl.ID != "" {
		return hl.ID
	}
	return fmt.Sprintf("hline%d", i)
}

func markerAnchorPrice(b model.Bar, pos model.MarkerPosition) float64 {
	switch pos {
	case model.AboveBar:
		return b.High
	case model.BelowBar:
		return b.Low
	}
	return b.Close
}

// bandAnchor builds minimal candle anchor data for a constant band: its two
// bounds at the first and last bar.
func bandAnchor(bars []model.Bar, upper, lower float64) []model.CandlePoint {
	first := bars[0].Time
	last := bars[len(bars)-1].Time
	return []model.CandlePoint{
		{Time: first, Open: lower, Close: upper, High: upper, Low: lower},
		{Time: last, Open: lower, Close: upper, High: upper, Low: lower},
	}
}

// joinPlots time-joins two plots, dropping rows where either side is missing.
func joinPlots(p1, p2 []model.PlotPoint) []primitive.PlotFillRow {
	byTime := make(map[int64]float64, len(p2))
	for _, p := range p2 {
		if !p.Missing() {
			byTime[p.Time] = p.Value
		}
	}
	var rows []primitive.PlotFillRow
	for _, p := range p1 {
		if p.Missing() {
			continue
		}
		v2, ok := byTime[p.Time]
		if !ok {
			continue
		}
		upper, lower := p.Value, v2
		if lower > upper {
			upper, lower = lower, upper
		}
		rows = append(rows, primitive.PlotFillRow{Time: p.Time, Upper: upper, Lower: lower})
	}
	return rows
}

func lineOrDefault(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
