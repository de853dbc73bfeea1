package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// BoxData is the snapshot of a box primitive.
type BoxData struct {
	Boxes []model.BoxSpec
}

// Box draws optionally filled and/or stroked rectangles spanning two
// (time, price) corners. Fill and border styling are independent.
type Box struct {
	Base
	data BoxData
}

// NewBox creates an empty box primitive.
func NewBox() *Box {
	return &Box{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *Box) SetData(d BoxData) {
	p.data = d
	p.requestUpdate()
}

func (p *Box) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZBottom, Draw: p.draw}}
}

func (p *Box) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Boxes) == 0 {
		return
	}
	m := p.mapping()

	for _, bx := range p.data.Boxes {
		x1, ok1 := m.TimeToX(bx.Time1)
		y1, ok2 := m.PriceToY(bx.Price1)
		x2, ok3 := m.TimeToX(bx.Time2)
		y2, ok4 := m.PriceToY(bx.Price2)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		r := render.Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}

		if bx.BgColor != "" {
			cv.FillRect(r, bx.BgColor)
		}
		if bx.BorderWidth > 0 && bx.BorderColor != "" {
			cv.StrokeRect(r, render.Stroke{
				Color: bx.BorderColor,
				Width: bx.BorderWidth,
				Style: bx.BorderStyle,
			})
		}
	}
}
