package scene

import "chartkit/internal/render"

// fontWidthFactor approximates glyph width as a fraction of the font size.
// Browser clients re-measure before drawing; the scene only needs a stable
// estimate for layout.
const fontWidthFactor = 0.6

// DrawCommand is one recorded canvas operation, replayable by any canvas
// implementation.
type DrawCommand struct {
	Op     string         `json:"op"`
	Points []render.Point `json:"points,omitempty"`
	Rect   *render.Rect   `json:"rect,omitempty"`
	Radius float64        `json:"radius,omitempty"`
	Color  string         `json:"color,omitempty"`
	Stroke *render.Stroke `json:"stroke,omitempty"`
	Text   string         `json:"text,omitempty"`
	Font   *render.Font   `json:"font,omitempty"`
	Align  int            `json:"align,omitempty"`
}

// commandCanvas records draw operations instead of rasterizing them.
type commandCanvas struct {
	w, h float64
	cmds []DrawCommand
}

func newCommandCanvas(w, h float64) *commandCanvas {
	return &commandCanvas{w: w, h: h}
}

func (c *commandCanvas) Size() (float64, float64) { return c.w, c.h }

func (c *commandCanvas) StrokePolyline(pts []render.Point, s render.Stroke) {
	cp := make([]render.Point, len(pts))
	copy(cp, pts)
	stroke := s
	c.cmds = append(c.cmds, DrawCommand{Op: "polyline", Points: cp, Stroke: &stroke})
}

func (c *commandCanvas) StrokeLine(a, b render.Point, s render.Stroke) {
	stroke := s
	c.cmds = append(c.cmds, DrawCommand{Op: "line", Points: []render.Point{a, b}, Stroke: &stroke})
}

func (c *commandCanvas) FillRect(r render.Rect, color string) {
	rect := r
	c.cmds = append(c.cmds, DrawCommand{Op: "fillRect", Rect: &rect, Color: color})
}

func (c *commandCanvas) StrokeRect(r render.Rect, s render.Stroke) {
	rect := r
	stroke := s
	c.cmds = append(c.cmds, DrawCommand{Op: "strokeRect", Rect: &rect, Stroke: &stroke})
}

func (c *commandCanvas) FillRoundedRect(r render.Rect, radius float64, color string) {
	rect := r
	c.cmds = append(c.cmds, DrawCommand{Op: "roundedRect", Rect: &rect, Radius: radius, Color: color})
}

func (c *commandCanvas) FillPolygon(pts []render.Point, color string) {
	cp := make([]render.Point, len(pts))
	copy(cp, pts)
	c.cmds = append(c.cmds, DrawCommand{Op: "polygon", Points: cp, Color: color})
}

func (c *commandCanvas) FillText(text string, p render.Point, f render.Font, color string, align render.TextAlign) {
	font := f
	c.cmds = append(c.cmds, DrawCommand{
		Op: "text", Text: text, Points: []render.Point{p},
		Font: &font, Color: color, Align: int(align),
	})
}

func (c *commandCanvas) MeasureText(text string, f render.Font) (float64, float64) {
	return float64(len([]rune(text))) * f.SizePx * fontWidthFactor, f.SizePx
}
