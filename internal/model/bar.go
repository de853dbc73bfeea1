package model

import (
	"encoding/json"
	"math"
)

// Bar represents one OHLCV sample at a discrete time.
// Bars are immutable once loaded; the full bar slice is shared read-only
// between the chart manager and the dispatch engine.
type Bar struct {
	Time   int64   `json:"time"` // unix seconds (UTC)
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	buf, _ := json.Marshal(b)
	return buf
}

// PlotPoint is one (time, value) sample of a named plot.
// A NaN value means "no data at this time" and is skipped or treated as a
// segment break by the renderers, never as an error.
type PlotPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"` // per-point override, "" = series default
}

// Missing reports whether the point carries the no-data sentinel.
func (p PlotPoint) Missing() bool {
	return math.IsNaN(p.Value)
}

// plotPointJSON mirrors PlotPoint with a nullable value: JSON has no NaN
// literal, so the no-data sentinel travels as null.
type plotPointJSON struct {
	Time  int64    `json:"time"`
	Value *float64 `json:"value"`
	Color string   `json:"color,omitempty"`
}

// MarshalJSON encodes the no-data sentinel as a null value.
func (p PlotPoint) MarshalJSON() ([]byte, error) {
	out := plotPointJSON{Time: p.Time, Color: p.Color}
	if !p.Missing() {
		v := p.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null value to the NaN sentinel.
func (p *PlotPoint) UnmarshalJSON(data []byte) error {
	var in plotPointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Time = in.Time
	p.Color = in.Color
	if in.Value == nil {
		p.Value = math.NaN()
	} else {
		p.Value = *in.Value
	}
	return nil
}

// CandlePoint is one OHLC sample of a named overlay candle sub-series.
type CandlePoint struct {
	Time        int64   `json:"time"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Color       string  `json:"color,omitempty"`
	WickColor   string  `json:"wickColor,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
}

// HasAnyValue reports whether at least one point in pts carries a real value.
func HasAnyValue(pts []PlotPoint) bool {
	for _, p := range pts {
		if !p.Missing() {
			return true
		}
	}
	return false
}
