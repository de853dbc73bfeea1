package render

// defaultBarWidth is used when the visible range is degenerate and no real
// estimate is possible.
const defaultBarWidth = 8.0

// EstimateBarWidth estimates the on-screen width of one bar in pixels from
// the visible logical range: total visible width divided by the visible bar
// count, clamped to a 1px minimum. Every bar-rectangle renderer shares this.
func EstimateBarWidth(paneWidth float64, m Mapping) float64 {
	from, to, ok := m.VisibleRange()
	if !ok || to <= from || paneWidth <= 0 {
		return defaultBarWidth
	}
	w := paneWidth / (to - from)
	if w < 1 {
		return 1
	}
	return w
}
