package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// crossRadiusFactor scales the configured line width into the default cross
// half-size in pixels.
const crossRadiusFactor = 3

// CrossData is the snapshot of a cross-marker primitive.
type CrossData struct {
	Points []model.PlotPoint
	Color  string
	Width  float64
	Radius float64 // half-size in px, 0 = Width * 3
}

// Cross draws two crossed diagonal strokes centered at each valid point.
type Cross struct {
	Base
	data CrossData
}

// NewCross creates an empty cross-marker primitive.
func NewCross() *Cross {
	return &Cross{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *Cross) SetData(d CrossData) {
	p.data = d
	p.requestUpdate()
}

func (p *Cross) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZNormal, Draw: p.draw}}
}

func (p *Cross) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Points) == 0 {
		return
	}
	m := p.mapping()
	r := p.data.Radius
	if r <= 0 {
		r = lineWidth(p.data.Width) * crossRadiusFactor
	}
	stroke := render.Stroke{Color: p.data.Color, Width: lineWidth(p.data.Width)}

	for _, pt := range p.data.Points {
		if pt.Missing() {
			continue
		}
		x, okx := m.TimeToX(pt.Time)
		y, oky := m.PriceToY(pt.Value)
		if !okx || !oky {
			continue
		}
		s := stroke
		if pt.Color != "" {
			s.Color = pt.Color
		}
		cv.StrokeLine(render.Point{X: x - r, Y: y - r}, render.Point{X: x + r, Y: y + r}, s)
		cv.StrokeLine(render.Point{X: x - r, Y: y + r}, render.Point{X: x + r, Y: y - r}, s)
	}
}
