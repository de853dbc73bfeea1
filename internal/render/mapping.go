package render

// Mapping converts data coordinates into device pixels for one pane. All
// conversions can fail when the input is outside the mappable range; callers
// treat that as "skip this point", never as an error.
type Mapping interface {
	// TimeToX maps a bar time to a pixel x coordinate.
	TimeToX(t int64) (float64, bool)

	// PriceToY maps a price to a pixel y coordinate on the pane's scale.
	PriceToY(p float64) (float64, bool)

	// XToLogical maps a pixel x back to the nearest logical bar index.
	XToLogical(x float64) (int, bool)

	// VisibleRange returns the visible logical bar range. ok is false when
	// the range is degenerate (no data or zero width).
	VisibleRange() (from, to float64, ok bool)
}
