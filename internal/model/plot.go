package model

// PlotStyle selects the rendering mechanism for a plot. The dispatch engine
// resolves each style to exactly one strategy; unknown styles fall back to a
// plain line.
type PlotStyle string

const (
	StyleLine       PlotStyle = "line"
	StyleHistogram  PlotStyle = "histogram"
	StyleColumns    PlotStyle = "columns"
	StyleCircles    PlotStyle = "circles"
	StyleCross      PlotStyle = "cross"
	StyleArea       PlotStyle = "area"
	StyleStepline   PlotStyle = "stepline"
	StyleSteplineBr PlotStyle = "steplinebr"
	StyleLineBr     PlotStyle = "linebr"
)

// DisplayNone on PlotSpec.Display hides a plot unconditionally, overriding
// every other visibility signal.
const DisplayNone = "none"

// PlotSpec is the declared configuration of one named plot: how it renders
// and which signals decide whether it renders at all.
type PlotSpec struct {
	ID    string    `json:"id"`
	Title string    `json:"title,omitempty"`
	Style PlotStyle `json:"style,omitempty"`
	Color string    `json:"color,omitempty"`
	Width float64   `json:"width,omitempty"`

	// Visibility signals, in decreasing precedence. Display=="none" always
	// hides. Visible, when set, decides. VisibleInput names a boolean input
	// flag; VisibleFlag names an entry of Result.Visibility. When none of
	// these apply the plot is visible iff it has any non-NaN value.
	Display      string `json:"display,omitempty"`
	Visible      *bool  `json:"visible,omitempty"`
	VisibleInput string `json:"visibleInput,omitempty"`
	VisibleFlag  string `json:"visibleFlag,omitempty"`
}
