package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

const (
	labelPaddingX     = 6.0
	labelPaddingY     = 4.0
	labelCornerRadius = 4.0
)

// LabelData is the snapshot of a label primitive.
type LabelData struct {
	Labels []model.LabelSpec
}

// Label draws text with an optional rounded-rectangle background sized to the
// measured text box plus fixed padding.
type Label struct {
	Base
	data LabelData
}

// NewLabel creates an empty label primitive.
func NewLabel() *Label {
	return &Label{}
}

// SetData replaces the snapshot wholesale and requests a redraw.
func (p *Label) SetData(d LabelData) {
	p.data = d
	p.requestUpdate()
}

func (p *Label) PaneViews() []PaneView {
	return []PaneView{{ZOrder: ZTop, Draw: p.draw}}
}

func (p *Label) draw(cv render.Canvas) {
	if !p.attached() || len(p.data.Labels) == 0 {
		return
	}
	m := p.mapping()

	for _, lb := range p.data.Labels {
		if lb.Text == "" {
			continue
		}
		x, okx := m.TimeToX(lb.Time)
		y, oky := m.PriceToY(lb.Price)
		if !okx || !oky {
			continue
		}

		f := render.Font{SizePx: lb.Size.Px()}
		tw, th := cv.MeasureText(lb.Text, f)

		if lb.Color != "" {
			box := render.Rect{
				X: x - tw/2 - labelPaddingX,
				Y: y - th/2 - labelPaddingY,
				W: tw + 2*labelPaddingX,
				H: th + 2*labelPaddingY,
			}
			cv.FillRoundedRect(box, labelCornerRadius, lb.Color)
		}

		textColor := lb.TextColor
		if textColor == "" {
			textColor = "#FFFFFF"
		}
		cv.FillText(lb.Text, render.Point{X: x, Y: y + th/2}, f, textColor, render.AlignCenter)
	}
}
