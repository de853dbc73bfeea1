package scene

import (
	"chartkit/internal/chart"
	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

// Series is the scene implementation of chart.Series.
type Series struct {
	host *Host
	typ  chart.SeriesType
	opts chart.SeriesOptions
	pane int

	points  []model.PlotPoint
	candles []model.CandlePoint
	markers []model.MarkerSpec
	prims   []primitive.Primitive
}

// SetData replaces the series' line-style data and rebuilds the time axis.
func (s *Series) SetData(pts []model.PlotPoint) {
	s.points = pts
	s.candles = nil
	s.host.rebuildAxis()
	s.host.dirty = true
}

// SetCandles replaces the series' candle data and rebuilds the time axis.
func (s *Series) SetCandles(candles []model.CandlePoint) {
	s.candles = candles
	s.points = nil
	s.host.rebuildAxis()
	s.host.dirty = true
}

// SetMarkers replaces the series' built-in markers.
func (s *Series) SetMarkers(markers []model.MarkerSpec) {
	s.markers = markers
	s.host.dirty = true
}

// Markers returns the series' built-in markers.
func (s *Series) Markers() []model.MarkerSpec { return s.markers }

// MoveToPane relocates the series; missing panes are created on demand.
func (s *Series) MoveToPane(idx int) {
	s.host.movedToPane(s, idx)
}

// PriceToY maps a price onto the series' pane scale.
func (s *Series) PriceToY(price float64) (float64, bool) {
	return (&paneMapping{host: s.host, pane: s.pane}).PriceToY(price)
}

// BarAt returns the series' data at a logical bar index. Line data is
// widened into a flat bar so position-based anchor lookups still resolve.
func (s *Series) BarAt(logical int) (model.Bar, bool) {
	if logical < 0 || logical >= len(s.host.axis) {
		return model.Bar{}, false
	}
	t := s.host.axis[logical]
	for _, c := range s.candles {
		if c.Time == t {
			return model.Bar{Time: c.Time, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close}, true
		}
	}
	for _, p := range s.points {
		if p.Time == t && !p.Missing() {
			return model.Bar{Time: p.Time, Open: p.Value, High: p.Value, Low: p.Value, Close: p.Value}, true
		}
	}
	return model.Bar{}, false
}

// AttachPrimitive attaches a drawing primitive and invokes its Attached hook
// with this series' host context.
func (s *Series) AttachPrimitive(p primitive.Primitive) {
	s.prims = append(s.prims, p)
	p.Attached(&attachCtx{series: s})
	s.host.dirty = true
}

// DetachPrimitive removes a primitive and invokes its Detached hook.
func (s *Series) DetachPrimitive(p primitive.Primitive) {
	for i, other := range s.prims {
		if other == p {
			s.prims = append(s.prims[:i], s.prims[i+1:]...)
			break
		}
	}
	p.Detached()
	s.host.dirty = true
}

// times returns every time the series contributes to the horizontal axis.
func (s *Series) times() []int64 {
	out := make([]int64, 0, len(s.points)+len(s.candles))
	for _, p := range s.points {
		out = append(out, p.Time)
	}
	for _, c := range s.candles {
		out = append(out, c.Time)
	}
	return out
}

// valueRange returns the series' min/max contribution to its pane's
// autoscale, NaN points excluded. Invisible anchor series still contribute;
// that is the whole point of the anchor pattern.
func (s *Series) valueRange() (min, max float64, ok bool) {
	first := true
	add := func(v float64) {
		if first {
			min, max = v, v
			first = false
			return
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	for _, p := range s.points {
		if !p.Missing() {
			add(p.Value)
		}
	}
	for _, c := range s.candles {
		add(c.Low)
		add(c.High)
	}
	return min, max, !first
}
