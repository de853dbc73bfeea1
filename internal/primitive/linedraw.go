package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// LineDrawData is the snapshot of a line-drawing primitive.
type LineDrawData struct {
	Lines []model.LineSpec
}

// LineDraw draws segments between two (time, price) anchors, optionally
// extending one or both ends linearly to the pane's horizontal edges.
type LineDraw struct {
	Base
	data LineDrawData
}

// NewLineDraw creates an empty line-drawing primitive.
func NewLineDraw() *LineDraw {
	return &LineDraw{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *LineDraw) SetData(d LineDrawData) {
	p.data = d
	p.requestUpdate()
}

func (p *LineDraw) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZNormal, Draw: p.draw}}
}

func (p *LineDraw) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Lines) == 0 {
		return
	}
	m := p.mapping()
	paneWidth, _ := cv.Size()

	for _, ln := range p.data.Lines {
		x1, ok1 := m.TimeToX(ln.Time1)
		y1, ok2 := m.PriceToY(ln.Price1)
		x2, ok3 := m.TimeToX(ln.Time2)
		y2, ok4 := m.PriceToY(ln.Price2)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		if x2 < x1 {
			x1, x2 = x2, x1
			y1, y2 = y2, y1
		}

		// Extend by solving the connecting line's equation at the pane edges.
		// Vertical segments cannot be extended horizontally.
		if x2 != x1 {
			slope := (y2 - y1) / (x2 - x1)
			if ln.ExtendLeft {
				y1 = y1 + slope*(0-x1)
				x1 = 0
			}
			if ln.ExtendRight {
				y2 = y1 + slope*(paneWidth-x1)
				x2 = paneWidth
			}
		}

		cv.StrokeLine(render.Point{X: x1, Y: y1}, render.Point{X: x2, Y: y2}, render.Stroke{
			Color: ln.Color,
			Width: lineWidth(ln.Width),
			Style: ln.Style,
		})
	}
}
