package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

const (
	// markerOffsetPx pushes the shape off the anchor bar.
	markerOffsetPx = 10.0
	// markerHalfSize is the default shape half-size in px.
	markerHalfSize = 6.0
	// markerTextGap separates the optional text from the shape.
	markerTextGap = 4.0
)

// MarkerData is the snapshot of an extended-marker primitive: every marker
// whose shape is outside the host's built-in set.
type MarkerData struct {
	Markers []model.MarkerSpec
}

// Marker draws shapes anchored at a bar's high, low or close, chosen by the
// marker's declared position. The anchor bar is resolved by mapping the
// marker's time to a pixel x, then to the nearest logical bar index, then
// reading that bar from the host series.
type Marker struct {
	Base
	data MarkerData
}

// NewMarker creates an empty extended-marker primitive.
func NewMarker() *Marker {
	return &Marker{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *Marker) SetData(d MarkerData) {
	p.data = d
	p.requestUpdate()
}

func (p *Marker) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZTop, Draw: p.draw}}
}

func (p *Marker) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Markers) == 0 {
		return
	}
	m := p.mapping()

	for _, mk := range p.data.Markers {
		x, ok := m.TimeToX(mk.Time)
		if !ok {
			continue
		}
		idx, ok := m.XToLogical(x)
		if !ok {
			continue
		}
		bar, ok := p.barAt(idx)
		if !ok {
			continue
		}

		var anchor float64
		switch mk.Position {
		case model.AboveBar:
			anchor = bar.High
		case model.BelowBar:
			anchor = bar.Low
		default:
			anchor = bar.Close
		}
		y, ok := m.PriceToY(anchor)
		if !ok {
			continue
		}
		switch mk.Position {
		case model.AboveBar:
			y -= markerOffsetPx
		case model.BelowBar:
			y += markerOffsetPx
		}

		half := mk.Size
		if half <= 0 {
			half = markerHalfSize
		}
		drawShape(cv, mk.Shape, render.Point{X: x, Y: y}, half, mk.Color)

		if mk.Text != "" {
			f := render.Font{SizePx: model.FontSmall.Px()}
			_, th := cv.MeasureText(mk.Text, f)
			ty := y - half - markerTextGap
			if mk.Position == model.BelowBar {
				ty = y + half + markerTextGap + th
			}
			cv.FillText(mk.Text, render.Point{X: x, Y: ty}, f, mk.Color, render.AlignCenter)
		}
	}
}

// drawShape renders one extended marker glyph centered at c with the given
// half-size.
func drawShape(cv render.Canvas, shape model.MarkerShape, c render.Point, half float64, color string) {
	stroke := render.Stroke{Color: color, Width: 1}
	switch shape {
	case model.ShapeTriangleUp:
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y - half},
			{X: c.X + half, Y: c.Y + half},
			{X: c.X - half, Y: c.Y + half},
		}, color)
	case model.ShapeTriangleDown:
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y + half},
			{X: c.X + half, Y: c.Y - half},
			{X: c.X - half, Y: c.Y - half},
		}, color)
	case model.ShapeDiamond:
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y - half},
			{X: c.X + half, Y: c.Y},
			{X: c.X, Y: c.Y + half},
			{X: c.X - half, Y: c.Y},
		}, color)
	case model.ShapeCross:
		cv.StrokeLine(render.Point{X: c.X - half, Y: c.Y}, render.Point{X: c.X + half, Y: c.Y}, stroke)
		cv.StrokeLine(render.Point{X: c.X, Y: c.Y - half}, render.Point{X: c.X, Y: c.Y + half}, stroke)
	case model.ShapeXCross:
		cv.StrokeLine(render.Point{X: c.X - half, Y: c.Y - half}, render.Point{X: c.X + half, Y: c.Y + half}, stroke)
		cv.StrokeLine(render.Point{X: c.X - half, Y: c.Y + half}, render.Point{X: c.X + half, Y: c.Y - half}, stroke)
	case model.ShapeFlag:
		// Pole with a triangular flag at the top.
		cv.StrokeLine(render.Point{X: c.X - half/2, Y: c.Y - half}, render.Point{X: c.X - half/2, Y: c.Y + half}, stroke)
		cv.FillPolygon([]render.Point{
			{X: c.X - half/2, Y: c.Y - half},
			{X: c.X + half, Y: c.Y - half/2},
			{X: c.X - half/2, Y: c.Y},
		}, color)
	case model.ShapeLabelUp:
		// Pointer below, body above.
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y + half},
			{X: c.X + half, Y: c.Y},
			{X: c.X + half, Y: c.Y - half},
			{X: c.X - half, Y: c.Y - half},
			{X: c.X - half, Y: c.Y},
		}, color)
	case model.ShapeLabelDown:
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y - half},
			{X: c.X + half, Y: c.Y},
			{X: c.X + half, Y: c.Y + half},
			{X: c.X - half, Y: c.Y + half},
			{X: c.X - half, Y: c.Y},
		}, color)
	default:
		// Unknown shape: draw a diamond so the marker is still visible.
		cv.FillPolygon([]render.Point{
			{X: c.X, Y: c.Y - half},
			{X: c.X + half, Y: c.Y},
			{X: c.X, Y: c.Y + half},
			{X: c.X - half, Y: c.Y},
		}, color)
	}
}
