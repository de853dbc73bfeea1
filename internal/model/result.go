package model

// Result is everything one indicator computation produces. It is built once
// per recompute, never mutated afterwards, and fully replaces the previous
// result — the dispatch engine tears down all overlays before rendering it.
type Result struct {
	// Plots maps plot id to its value series. Declared plots with no entry
	// (or an all-NaN entry) simply do not render.
	Plots map[string][]PlotPoint `json:"plots,omitempty"`

	// Companion display channels. All optional.
	Markers     []MarkerSpec             `json:"markers,omitempty"`
	BarColors   []BarColor               `json:"barColors,omitempty"`
	BgColors    []BgColor                `json:"bgColors,omitempty"`
	PlotCandles map[string][]CandlePoint `json:"plotCandles,omitempty"`
	Labels      []LabelSpec              `json:"labels,omitempty"`
	Lines       []LineSpec               `json:"lines,omitempty"`
	Boxes       []BoxSpec                `json:"boxes,omitempty"`
	Tables      []TableSpec              `json:"tables,omitempty"` // only the first is displayed
	PlotFills   []PlotFillSpec           `json:"plotFills,omitempty"`
	HLines      []HLineSpec              `json:"hlines,omitempty"`
	HLineFills  []HLineFillSpec          `json:"hlineFills,omitempty"`

	// Visibility carries computed per-plot visibility flags, consulted when a
	// PlotSpec names one via VisibleFlag.
	Visibility map[string]bool `json:"visibility,omitempty"`
}

// Plot returns the value series for a plot id, or nil.
func (r *Result) Plot(id string) []PlotPoint {
	if r == nil || r.Plots == nil {
		return nil
	}
	return r.Plots[id]
}
