package model

import (
	"math"
	"testing"
)

func floatp(v float64) *float64 { return &v }

func nanValue() float64 { return math.NaN() }

func TestResolveFillColor(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		transp *float64
		want   string
	}{
		{"default alpha", "#2962FF", nil, "#2962FF40"},
		{"half transparent", "#2962FF", floatp(50), "#2962FF80"},
		{"opaque", "#26A69A", floatp(0), "#26A69Aff"},
		{"fully transparent", "#26A69A", floatp(100), "#26A69A00"},
		{"ninety percent", "#EF5350", floatp(90), "#EF53501a"},
		{"replaces existing alpha", "#2962FF80", floatp(0), "#2962FFff"},
		{"clamps below zero", "#000000", floatp(-10), "#000000ff"},
		{"clamps above hundred", "#000000", floatp(150), "#00000000"},
		{"malformed passthrough", "red", nil, "red"},
		{"short hex passthrough", "#FFF", floatp(50), "#FFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFillColor(tt.base, tt.transp)
			if got != tt.want {
				t.Errorf("ResolveFillColor(%q, %v) = %q, want %q", tt.base, tt.transp, got, tt.want)
			}
		})
	}
}

func TestPlotPointMissing(t *testing.T) {
	if (PlotPoint{Time: 1, Value: 0}).Missing() {
		t.Error("zero value must not be missing")
	}
	pts := []PlotPoint{{Time: 1, Value: nanValue()}, {Time: 2, Value: nanValue()}}
	if HasAnyValue(pts) {
		t.Error("all-NaN plot reported a value")
	}
	pts = append(pts, PlotPoint{Time: 3, Value: 5})
	if !HasAnyValue(pts) {
		t.Error("plot with a real value reported empty")
	}
}
