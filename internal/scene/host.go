// Package scene is an in-process implementation of the chart.Host boundary.
// It keeps a scene graph of panes and series, maps data coordinates through
// a viewport, and replays primitive draw routines onto a command-recording
// canvas. The resulting snapshots are plain data: the gateway ships them to
// browser clients, which replay the commands onto a real canvas.
//
// The scene is confined to the engine goroutine, like everything else in the
// core; snapshots are exported as immutable bytes before crossing goroutines.
package scene

import (
	"sort"

	"chartkit/internal/chart"
	"chartkit/internal/model"
)

const (
	defaultWidth  = 1280.0
	defaultHeight = 720.0

	// priceScaleMargin is the fraction of the value range padded above and
	// below when autoscaling a pane.
	priceScaleMargin = 0.1
)

// Host is the in-process scene host.
type Host struct {
	width  float64
	height float64

	panes  []*pane
	tables []*tableOverlay

	// Horizontal axis: sorted distinct times across all series, with the
	// visible logical range over it.
	axis        []int64
	axisIndex   map[int64]int
	visibleFrom float64
	visibleTo   float64
	fullRange   bool // track the full axis until the viewport is pinned

	dirty bool
}

type pane struct {
	series []*Series
}

// NewHost creates a scene host with a single (primary) pane and a default
// viewport.
func NewHost() *Host {
	return &Host{
		width:     defaultWidth,
		height:    defaultHeight,
		panes:     []*pane{{}},
		axisIndex: map[int64]int{},
		fullRange: true,
	}
}

// Resize sets the viewport size in device pixels.
func (h *Host) Resize(width, height float64) {
	if width > 0 {
		h.width = width
	}
	if height > 0 {
		h.height = height
	}
	h.dirty = true
}

// SetVisibleRange pins the visible logical bar range. Until called, the full
// axis stays visible as data changes.
func (h *Host) SetVisibleRange(from, to float64) {
	h.visibleFrom, h.visibleTo = from, to
	h.fullRange = false
	h.dirty = true
}

// AddSeries creates a series in the primary pane.
func (h *Host) AddSeries(st chart.SeriesType, opts chart.SeriesOptions) chart.Series {
	s := &Series{host: h, typ: st, opts: opts, pane: 0}
	h.panes[0].series = append(h.panes[0].series, s)
	h.dirty = true
	return s
}

// RemoveSeries removes a series from its pane and rebuilds the axis.
func (h *Host) RemoveSeries(cs chart.Series) {
	s, ok := cs.(*Series)
	if !ok {
		return
	}
	p := h.panes[s.pane]
	for i, other := range p.series {
		if other == s {
			p.series = append(p.series[:i], p.series[i+1:]...)
			break
		}
	}
	for _, prim := range s.prims {
		prim.Detached()
	}
	s.prims = nil
	h.rebuildAxis()
	h.dirty = true
}

// PaneCount returns the number of panes; pane 0 is the primary price pane.
func (h *Host) PaneCount() int { return len(h.panes) }

// SeriesInPane returns how many series live in a pane.
func (h *Host) SeriesInPane(idx int) int {
	if idx < 0 || idx >= len(h.panes) {
		return 0
	}
	return len(h.panes[idx].series)
}

// RemovePane drops a pane; panes above it shift down one index. The primary
// pane is never removed.
func (h *Host) RemovePane(idx int) {
	if idx <= 0 || idx >= len(h.panes) {
		return
	}
	h.panes = append(h.panes[:idx], h.panes[idx+1:]...)
	for i, p := range h.panes {
		for _, s := range p.series {
			s.pane = i
		}
	}
	h.dirty = true
}

// TimeScale returns the shared horizontal scale.
func (h *Host) TimeScale() chart.TimeScale { return (*timeScale)(h) }

// CreateTable places a table overlay.
func (h *Host) CreateTable(spec model.TableSpec, paneIdx int) chart.TableHandle {
	t := &tableOverlay{host: h, spec: spec, pane: paneIdx}
	h.tables = append(h.tables, t)
	h.dirty = true
	return t
}

// Dirty reports whether a redraw was requested since the last Render.
func (h *Host) Dirty() bool { return h.dirty }

func (h *Host) requestUpdate() { h.dirty = true }

// movedToPane relocates a series; target panes are created on demand.
func (h *Host) movedToPane(s *Series, idx int) {
	if idx == s.pane || idx < 0 {
		return
	}
	for len(h.panes) <= idx {
		h.panes = append(h.panes, &pane{})
	}
	old := h.panes[s.pane]
	for i, other := range old.series {
		if other == s {
			old.series = append(old.series[:i], old.series[i+1:]...)
			break
		}
	}
	s.pane = idx
	h.panes[idx].series = append(h.panes[idx].series, s)
	h.dirty = true
}

// rebuildAxis recomputes the sorted distinct times across all series.
func (h *Host) rebuildAxis() {
	seen := make(map[int64]bool)
	var times []int64
	for _, p := range h.panes {
		for _, s := range p.series {
			for _, t := range s.times() {
				if !seen[t] {
					seen[t] = true
					times = append(times, t)
				}
			}
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	h.axis = times
	h.axisIndex = make(map[int64]int, len(times))
	for i, t := range times {
		h.axisIndex[t] = i
	}
	if h.fullRange {
		h.visibleFrom = 0
		h.visibleTo = float64(len(times))
	}
}

type tableOverlay struct {
	host *Host
	spec model.TableSpec
	pane int
}

func (t *tableOverlay) Remove() {
	for i, other := range t.host.tables {
		if other == t {
			t.host.tables = append(t.host.tables[:i], t.host.tables[i+1:]...)
			break
		}
	}
	t.host.dirty = true
}
