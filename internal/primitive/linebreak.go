package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// LineBreakData is the snapshot of a line-break primitive.
type LineBreakData struct {
	Points  []model.PlotPoint
	Color   string
	Width   float64
	Style   model.LineStyle
	Stepped bool // horizontal-then-vertical interpolation
}

// LineBreak draws a line that breaks at missing values: consecutive valid
// points are connected, a NaN closes the current stroke segment, and the next
// valid point starts a new one. No segment ever bridges a gap.
type LineBreak struct {
	Base
	data LineBreakData
}

// NewLineBreak creates an empty line-break primitive.
func NewLineBreak() *LineBreak {
	return &LineBreak{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *LineBreak) SetData(d LineBreakData) {
	p.data = d
	p.requestUpdate()
}

func (p *LineBreak) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZNormal, Draw: p.draw}}
}

func (p *LineBreak) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Points) == 0 {
		return
	}
	m := p.mapping()
	stroke := render.Stroke{Color: p.data.Color, Width: lineWidth(p.data.Width), Style: p.data.Style}

	var seg []render.Point
	flush := func() {
		if len(seg) > 0 {
			cv.StrokePolyline(seg, stroke)
			seg = nil
		}
	}

	for _, pt := range p.data.Points {
		if pt.Missing() {
			flush()
			continue
		}
		x, okx := m.TimeToX(pt.Time)
		y, oky := m.PriceToY(pt.Value)
		if !okx || !oky {
			// Outside the visible range: skip the point, keep the segment.
			continue
		}
		if p.data.Stepped && len(seg) > 0 {
			prev := seg[len(seg)-1]
			seg = append(seg, render.Point{X: x, Y: prev.Y})
		}
		seg = append(seg, render.Point{X: x, Y: y})
	}
	flush()
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
