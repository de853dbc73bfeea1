package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// stubMapping maps time directly to x and price directly to y, with an
// optional mappable window on time.
type stubMapping struct {
	minTime, maxTime int64 // inclusive window; both zero = everything maps
	from, to         float64
}

func (m *stubMapping) TimeToX(t int64) (float64, bool) {
	if m.maxTime != 0 && (t < m.minTime || t > m.maxTime) {
		return 0, false
	}
	return float64(t), true
}

func (m *stubMapping) PriceToY(p float64) (float64, bool) { return p, true }

func (m *stubMapping) XToLogical(x float64) (int, bool) { return int(x), true }

func (m *stubMapping) VisibleRange() (float64, float64, bool) {
	if m.to <= m.from {
		return 0, 0, false
	}
	return m.from, m.to, true
}

// stubCtx satisfies AttachContext for tests.
type stubCtx struct {
	m       render.Mapping
	bars    map[int]model.Bar
	updates int
}

func (c *stubCtx) Mapping() render.Mapping { return c.m }

func (c *stubCtx) BarAt(logical int) (model.Bar, bool) {
	b, ok := c.bars[logical]
	return b, ok
}

func (c *stubCtx) RequestUpdate() { c.updates++ }

// recCanvas records every draw call.
type recCanvas struct {
	w, h      float64
	polylines [][]render.Point
	lines     [][2]render.Point
	fillRects []render.Rect
	fillCols  []string
	strokes   []render.Rect
	rounded   []render.Rect
	polygons  [][]render.Point
	texts     []string
}

func newRecCanvas(w, h float64) *recCanvas { return &recCanvas{w: w, h: h} }

func (c *recCanvas) Size() (float64, float64) { return c.w, c.h }

func (c *recCanvas) StrokePolyline(pts []render.Point, s render.Stroke) {
	cp := make([]render.Point, len(pts))
	copy(cp, pts)
	c.polylines = append(c.polylines, cp)
}

func (c *recCanvas) StrokeLine(a, b render.Point, s render.Stroke) {
	c.lines = append(c.lines, [2]render.Point{a, b})
}

func (c *recCanvas) FillRect(r render.Rect, color string) {
	c.fillRects = append(c.fillRects, r)
	c.fillCols = append(c.fillCols, color)
}

func (c *recCanvas) StrokeRect(r render.Rect, s render.Stroke) {
	c.strokes = append(c.strokes, r)
}

func (c *recCanvas) FillRoundedRect(r render.Rect, radius float64, color string) {
	c.rounded = append(c.rounded, r)
}

func (c *recCanvas) FillPolygon(pts []render.Point, color string) {
	cp := make([]render.Point, len(pts))
	copy(cp, pts)
	c.polygons = append(c.polygons, cp)
}

func (c *recCanvas) FillText(text string, p render.Point, f render.Font, color string, align render.TextAlign) {
	c.texts = append(c.texts, text)
}

func (c *recCanvas) MeasureText(text string, f render.Font) (float64, float64) {
	return float64(len(text)) * f.SizePx * 0.6, f.SizePx
}
