// Package render defines the pixel-space drawing surface and coordinate
// mappings shared by every drawing primitive. It has no host dependency:
// primitives draw onto a Canvas after mapping (time, price) data through a
// Mapping, and any point the mapping cannot place is skipped.
package render

import "chartkit/internal/model"

// Point is a device-pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a device-pixel rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Stroke describes how a path outline is drawn.
type Stroke struct {
	Color string          `json:"color"`
	Width float64         `json:"width"`
	Style model.LineStyle `json:"style"`
}

// Font describes label text rendering. Size is in pixels.
type Font struct {
	SizePx float64 `json:"sizePx"`
}

// TextAlign positions text horizontally relative to its anchor point.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Canvas is the device-pixel drawing surface a pane hands to primitive
// renderers. Implementations include the scene host's command recorder; tests
// use a call-recording fake.
type Canvas interface {
	// Size returns the pane size in device pixels.
	Size() (w, h float64)

	// StrokePolyline strokes connected segments through pts. A single-point
	// polyline is drawn as a dot of the stroke width.
	StrokePolyline(pts []Point, s Stroke)

	// StrokeLine strokes one segment.
	StrokeLine(a, b Point, s Stroke)

	FillRect(r Rect, color string)
	StrokeRect(r Rect, s Stroke)
	FillRoundedRect(r Rect, radius float64, color string)
	FillPolygon(pts []Point, color string)

	// FillText draws text with its baseline anchored at p.
	FillText(text string, p Point, f Font, color string, align TextAlign)

	// MeasureText returns the rendered size of text.
	MeasureText(text string, f Font) (w, h float64)
}
