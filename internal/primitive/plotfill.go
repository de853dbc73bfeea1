package primitive

import "chartkit/internal/render"

// PlotFillRow is one bar of a plot-to-plot fill: the already-joined upper and
// lower bounds at one time.
type PlotFillRow struct {
	Time  int64
	Upper float64
	Lower float64
}

// PlotFillData is the snapshot of a plot-fill primitive.
type PlotFillData struct {
	Rows  []PlotFillRow
	Color string
}

// PlotFill fills the band between two plots one bar-rectangle at a time.
// Per-bar rectangles are used instead of an overlapping area series so an
// overlay candlestick series is not visually masked.
type PlotFill struct {
	Base
	data PlotFillData
}

// NewPlotFill creates an empty plot-fill primitive.
func NewPlotFill() *PlotFill {
	return &PlotFill{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *PlotFill) SetData(d PlotFillData) {
	p.data = d
	p.requestUpdate()
}

func (p *PlotFill) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZBottom, Draw: p.draw}}
}

func (p *PlotFill) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Rows) == 0 {
		return
	}
	m := p.mapping()
	w, _ := cv.Size()
	barWidth := render.EstimateBarWidth(w, m)

	for _, row := range p.data.Rows {
		x, okx := m.TimeToX(row.Time)
		yu, oku := m.PriceToY(row.Upper)
		yl, okl := m.PriceToY(row.Lower)
		if !okx || !oku || !okl {
			continue
		}
		top, bottom := yu, yl
		if bottom < top {
			top, bottom = bottom, top
		}
		cv.FillRect(render.Rect{X: x - barWidth/2, Y: top, W: barWidth, H: bottom - top}, p.data.Color)
	}
}
