package chart

import (
	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

// anchored owns an invisible helper series and the primitive attached to it
// as one resource with one lifetime. A primitive without its anchor, or an
// anchor without its primitive, cannot be constructed.
type anchored struct {
	series Series
	prim   primitive.Primitive
}

// newAnchor creates an invisible line series in the given pane carrying the
// primitive's own time/price values, so the host's automatic value-range
// fitting still includes everything the primitive draws, and attaches the
// primitive to it.
func newAnchor(host Host, pane int, pts []model.PlotPoint, prim primitive.Primitive) *anchored {
	s := host.AddSeries(SeriesLine, SeriesOptions{Visible: false})
	if pane > 0 {
		s.MoveToPane(pane)
	}
	s.SetData(pts)
	s.AttachPrimitive(prim)
	return &anchored{series: s, prim: prim}
}

// newCandleAnchor is newAnchor for primitives spanning two values per bar
// (plot fills, reference-line bands): the anchor is an invisible candle
// series whose high/low cover both bounds.
func newCandleAnchor(host Host, pane int, candles []model.CandlePoint, prim primitive.Primitive) *anchored {
	s := host.AddSeries(SeriesCandlestick, SeriesOptions{Visible: false})
	if pane > 0 {
		s.MoveToPane(pane)
	}
	s.SetCandles(candles)
	s.AttachPrimitive(prim)
	return &anchored{series: s, prim: prim}
}

// setPoints replaces the anchor's representative data.
func (a *anchored) setPoints(pts []model.PlotPoint) {
	a.series.SetData(pts)
}

// release detaches the primitive and removes the helper series, in that
// order. After release the pair is gone as one unit.
func (a *anchored) release(host Host) {
	a.series.DetachPrimitive(a.prim)
	host.RemoveSeries(a.series)
}

// anchorPoints extracts the valid (time, value) pairs of pts for use as
// anchor data.
func anchorPoints(pts []model.PlotPoint) []model.PlotPoint {
	out := make([]model.PlotPoint, 0, len(pts))
	for _, p := range pts {
		if !p.Missing() {
			out = append(out, model.PlotPoint{Time: p.Time, Value: p.Value})
		}
	}
	return out
}
