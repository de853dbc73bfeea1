package model

// LineStyle selects the dash pattern of a stroked line.
type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
)

// MarkerShape names the glyph drawn for a marker. The first four shapes are
// the host framework's built-in marker set; everything else is routed to the
// extended-marker primitive.
type MarkerShape string

const (
	ShapeCircle       MarkerShape = "circle"
	ShapeSquare       MarkerShape = "square"
	ShapeArrowUp      MarkerShape = "arrowup"
	ShapeArrowDown    MarkerShape = "arrowdown"
	ShapeTriangleUp   MarkerShape = "triangleup"
	ShapeTriangleDown MarkerShape = "triangledown"
	ShapeDiamond      MarkerShape = "diamond"
	ShapeCross        MarkerShape = "cross"
	ShapeXCross       MarkerShape = "xcross"
	ShapeFlag         MarkerShape = "flag"
	ShapeLabelUp      MarkerShape = "labelup"
	ShapeLabelDown    MarkerShape = "labeldown"
)

// Builtin reports whether the host's native marker mechanism can draw the
// shape. Non-builtin shapes go through the extended-marker primitive.
func (s MarkerShape) Builtin() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeArrowUp, ShapeArrowDown:
		return true
	}
	return false
}

// MarkerPosition anchors a marker relative to its bar.
type MarkerPosition string

const (
	AboveBar MarkerPosition = "abovebar"
	BelowBar MarkerPosition = "belowbar"
	AtBar    MarkerPosition = "atbar"
)

// MarkerSpec is one marker produced by an indicator.
type MarkerSpec struct {
	Time     int64          `json:"time"`
	Shape    MarkerShape    `json:"shape"`
	Position MarkerPosition `json:"position"`
	Color    string         `json:"color,omitempty"`
	Text     string         `json:"text,omitempty"`
	Size     float64        `json:"size,omitempty"` // half-size in px, 0 = default
}

// BarColor recolors the primary candle at one time.
type BarColor struct {
	Time  int64  `json:"time"`
	Color string `json:"color"`
}

// BgColor paints the full pane height behind one bar.
type BgColor struct {
	Time  int64  `json:"time"`
	Color string `json:"color"`
}

// FontSize is the 5-step enumerated label font scale.
type FontSize string

const (
	FontTiny   FontSize = "tiny"
	FontSmall  FontSize = "small"
	FontNormal FontSize = "normal"
	FontLarge  FontSize = "large"
	FontHuge   FontSize = "huge"
)

// Px returns the pixel size for the font step. Unknown steps render at the
// normal size.
func (f FontSize) Px() float64 {
	switch f {
	case FontTiny:
		return 8
	case FontSmall:
		return 10
	case FontLarge:
		return 16
	case FontHuge:
		return 24
	}
	return 12
}

// LabelSpec is one text label anchored at a (time, price) point.
type LabelSpec struct {
	Time      int64    `json:"time"`
	Price     float64  `json:"price"`
	Text      string   `json:"text"`
	Color     string   `json:"color,omitempty"` // background, "" = no background
	TextColor string   `json:"textColor,omitempty"`
	Size      FontSize `json:"size,omitempty"`
}

// LineSpec is a drawn segment between two (time, price) points, optionally
// extended linearly to the pane's horizontal edges.
type LineSpec struct {
	Time1       int64     `json:"time1"`
	Price1      float64   `json:"price1"`
	Time2       int64     `json:"time2"`
	Price2      float64   `json:"price2"`
	Color       string    `json:"color,omitempty"`
	Width       float64   `json:"width,omitempty"`
	Style       LineStyle `json:"style,omitempty"`
	ExtendLeft  bool      `json:"extendLeft,omitempty"`
	ExtendRight bool      `json:"extendRight,omitempty"`
}

// BoxSpec is a rectangle spanning two (time, price) corners. Fill and border
// styling are independent; an empty BgColor means no fill and a zero
// BorderWidth means no border.
type BoxSpec struct {
	Time1       int64     `json:"time1"`
	Price1      float64   `json:"price1"`
	Time2       int64     `json:"time2"`
	Price2      float64   `json:"price2"`
	BgColor     string    `json:"bgColor,omitempty"`
	BorderColor string    `json:"borderColor,omitempty"`
	BorderWidth float64   `json:"borderWidth,omitempty"`
	BorderStyle LineStyle `json:"borderStyle,omitempty"`
}

// TablePosition is one of the nine anchor positions of a table overlay
// (three rows by three columns).
type TablePosition string

const (
	TableTopLeft      TablePosition = "top_left"
	TableTopCenter    TablePosition = "top_center"
	TableTopRight     TablePosition = "top_right"
	TableMiddleLeft   TablePosition = "middle_left"
	TableMiddleCenter TablePosition = "middle_center"
	TableMiddleRight  TablePosition = "middle_right"
	TableBottomLeft   TablePosition = "bottom_left"
	TableBottomCenter TablePosition = "bottom_center"
	TableBottomRight  TablePosition = "bottom_right"
)

// TableCell is one styled cell of a table overlay.
type TableCell struct {
	Text      string `json:"text"`
	BgColor   string `json:"bgColor,omitempty"`
	TextColor string `json:"textColor,omitempty"`
}

// TableSpec is a row/column grid displayed as an absolutely-positioned
// overlay. It bypasses the primitive pipeline entirely.
type TableSpec struct {
	Position TablePosition `json:"position"`
	Rows     [][]TableCell `json:"rows"`
	BgColor  string        `json:"bgColor,omitempty"`
}

// HLineSpec is a static horizontal reference line at a fixed price, rendered
// as a two-point series spanning the first and last bar times.
type HLineSpec struct {
	ID    string    `json:"id"`
	Price float64   `json:"price"`
	Title string    `json:"title,omitempty"`
	Color string    `json:"color,omitempty"`
	Width float64   `json:"width,omitempty"`
	Style LineStyle `json:"style,omitempty"`
}

// HLineFillSpec fills the band between two reference lines, identified by
// their HLineSpec IDs.
type HLineFillSpec struct {
	HLine1 string   `json:"hline1"`
	HLine2 string   `json:"hline2"`
	Color  string   `json:"color,omitempty"`
	Transp *float64 `json:"transp,omitempty"` // 0-100, nil = default alpha
}

// PlotFillSpec fills the band between two named plots.
type PlotFillSpec struct {
	Plot1  string   `json:"plot1"`
	Plot2  string   `json:"plot2"`
	Color  string   `json:"color,omitempty"`
	Transp *float64 `json:"transp,omitempty"` // 0-100, nil = default alpha
}
