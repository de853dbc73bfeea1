package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// BackgroundData is the snapshot of a background-fill primitive.
type BackgroundData struct {
	Colors []model.BgColor
}

// Background fills a full-pane-height vertical rectangle behind each colored
// bar. It stacks below the host's own drawing.
type Background struct {
	Base
	data BackgroundData
}

// NewBackground creates an empty background-fill primitive.
func NewBackground() *Background {
	return &Background{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *Background) SetData(d BackgroundData) {
	p.data = d
	p.requestUpdate()
}

func (p *Background) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZBottom, Draw: p.draw}}
}

func (p *Background) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Colors) == 0 {
		return
	}
	m := p.mapping()
	w, h := cv.Size()
	barWidth := render.EstimateBarWidth(w, m)

	for _, bc := range p.data.Colors {
		if bc.Color == "" {
			continue
		}
		x, ok := m.TimeToX(bc.Time)
		if !ok {
			continue
		}
		cv.FillRect(render.Rect{X: x - barWidth/2, Y: 0, W: barWidth, H: h}, bc.Color)
	}
}
