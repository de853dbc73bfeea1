// Package chart contains the host-facing interfaces of the charting
// framework collaborator and the Manager that orchestrates panes, series,
// anchors and primitives on top of it.
package chart

import (
	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

// SeriesType selects one of the host's built-in series renderers.
type SeriesType string

const (
	SeriesCandlestick SeriesType = "candlestick"
	SeriesLine        SeriesType = "line"
	SeriesArea        SeriesType = "area"
	SeriesHistogram   SeriesType = "histogram"
)

// SeriesOptions is the subset of host series styling the manager drives.
type SeriesOptions struct {
	Title   string          `json:"title,omitempty"`
	Color   string          `json:"color,omitempty"`
	Width   float64         `json:"width,omitempty"`
	Style   model.LineStyle `json:"style,omitempty"`
	Stepped bool            `json:"stepped,omitempty"`

	// MarkersOnly renders point markers at each value and no connecting
	// line (the 'circles' plot style).
	MarkersOnly bool `json:"markersOnly,omitempty"`

	// Visible false makes the series invisible while still contributing to
	// the pane's automatic value-range fitting. Anchor series rely on this.
	Visible bool `json:"visible"`
}

// Series is a live series handle inside the host chart.
type Series interface {
	SetData(pts []model.PlotPoint)
	SetCandles(candles []model.CandlePoint)

	// SetMarkers drives the host's built-in marker mechanism. Only shapes in
	// the built-in allow-list render here.
	SetMarkers(markers []model.MarkerSpec)

	MoveToPane(pane int)

	// PriceToY maps a price to a pixel y on this series' pane scale.
	PriceToY(price float64) (float64, bool)

	// BarAt returns the series' data at a logical bar index.
	BarAt(logical int) (model.Bar, bool)

	AttachPrimitive(p primitive.Primitive)
	DetachPrimitive(p primitive.Primitive)
}

// TimeScale is the host's shared horizontal scale.
type TimeScale interface {
	TimeToX(t int64) (float64, bool)
	XToLogical(x float64) (int, bool)
	VisibleRange() (from, to float64, ok bool)
	Width() float64
}

// TableHandle is a live table overlay created through the host.
type TableHandle interface {
	Remove()
}

// Host is the charting framework boundary. The manager only ever talks to
// the chart through this surface.
type Host interface {
	AddSeries(st SeriesType, opts SeriesOptions) Series
	RemoveSeries(s Series)

	// PaneCount returns the number of panes currently in the chart; pane 0
	// is the primary price pane.
	PaneCount() int

	// SeriesInPane returns how many series currently live in a pane.
	SeriesInPane(pane int) int

	// RemovePane removes an empty pane. Removing pane 0 is never requested.
	RemovePane(pane int)

	TimeScale() TimeScale

	// CreateTable places a table overlay; it bypasses the primitive
	// pipeline entirely.
	CreateTable(spec model.TableSpec, pane int) TableHandle
}
