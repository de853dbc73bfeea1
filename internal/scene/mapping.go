package scene

import "math"

// timeScale adapts the host to chart.TimeScale.
type timeScale Host

func (ts *timeScale) TimeToX(t int64) (float64, bool) {
	return (*Host)(ts).timeToX(t)
}

func (ts *timeScale) XToLogical(x float64) (int, bool) {
	return (*Host)(ts).xToLogical(x)
}

func (ts *timeScale) VisibleRange() (from, to float64, ok bool) {
	return (*Host)(ts).visibleRange()
}

func (ts *timeScale) Width() float64 { return ts.width }

func (h *Host) visibleRange() (from, to float64, ok bool) {
	if h.visibleTo <= h.visibleFrom {
		return 0, 0, false
	}
	return h.visibleFrom, h.visibleTo, true
}

func (h *Host) barWidth() float64 {
	from, to, ok := h.visibleRange()
	if !ok {
		return 0
	}
	return h.width / (to - from)
}

// timeToX places the center of the bar at the given time. Times off the axis
// or outside the visible range are unmappable.
func (h *Host) timeToX(t int64) (float64, bool) {
	idx, ok := h.axisIndex[t]
	if !ok {
		return 0, false
	}
	from, to, ok := h.visibleRange()
	if !ok {
		return 0, false
	}
	fidx := float64(idx)
	if fidx < from-1 || fidx > to+1 {
		return 0, false
	}
	return (fidx - from + 0.5) * h.barWidth(), true
}

// xToLogical returns the nearest logical bar index for a pixel x.
func (h *Host) xToLogical(x float64) (int, bool) {
	from, _, ok := h.visibleRange()
	bw := h.barWidth()
	if !ok || bw <= 0 {
		return 0, false
	}
	idx := int(math.Round(x/bw + from - 0.5))
	if idx < 0 || idx >= len(h.axis) {
		return 0, false
	}
	return idx, true
}

// paneHeight is the device-pixel height of one pane. Panes split the
// viewport evenly.
func (h *Host) paneHeight() float64 {
	n := len(h.panes)
	if n == 0 {
		n = 1
	}
	return h.height / float64(n)
}

// paneMapping implements render.Mapping for one pane, combining the shared
// time scale with the pane's autoscaled price scale.
type paneMapping struct {
	host *Host
	pane int
}

func (m *paneMapping) TimeToX(t int64) (float64, bool) { return m.host.timeToX(t) }
func (m *paneMapping) XToLogical(x float64) (int, bool) {
	return m.host.xToLogical(x)
}
func (m *paneMapping) VisibleRange() (from, to float64, ok bool) {
	return m.host.visibleRange()
}

// PriceToY maps a price through the pane's autoscaled range. Every series in
// the pane contributes to the range, invisible anchors included.
func (m *paneMapping) PriceToY(price float64) (float64, bool) {
	if math.IsNaN(price) {
		return 0, false
	}
	min, max, ok := m.host.paneValueRange(m.pane)
	if !ok {
		return 0, false
	}
	span := max - min
	if span == 0 {
		span = 1
		min -= 0.5
	}
	margin := span * priceScaleMargin
	min -= margin
	span += 2 * margin

	h := m.host.paneHeight()
	return h - (price-min)/span*h, true
}

func (h *Host) paneValueRange(idx int) (min, max float64, ok bool) {
	if idx < 0 || idx >= len(h.panes) {
		return 0, 0, false
	}
	first := true
	for _, s := range h.panes[idx].series {
		smin, smax, sok := s.valueRange()
		if !sok {
			continue
		}
		if first {
			min, max = smin, smax
			first = false
			continue
		}
		if smin < min {
			min = smin
		}
		if smax > max {
			max = smax
		}
	}
	return min, max, !first
}
