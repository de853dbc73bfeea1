package render

import "testing"

type fixedRange struct {
	from, to float64
	ok       bool
}

func (m fixedRange) TimeToX(t int64) (float64, bool)    { return float64(t), true }
func (m fixedRange) PriceToY(p float64) (float64, bool) { return p, true }
func (m fixedRange) XToLogical(x float64) (int, bool)   { return int(x), true }
func (m fixedRange) VisibleRange() (float64, float64, bool) {
	return m.from, m.to, m.ok
}

func TestEstimateBarWidth(t *testing.T) {
	tests := []struct {
		name      string
		paneWidth float64
		m         fixedRange
		want      float64
	}{
		{"even split", 1000, fixedRange{0, 100, true}, 10},
		{"clamped to min", 100, fixedRange{0, 1000, true}, 1},
		{"degenerate range", 1000, fixedRange{0, 0, false}, defaultBarWidth},
		{"inverted range", 1000, fixedRange{10, 5, true}, defaultBarWidth},
		{"zero pane width", 0, fixedRange{0, 100, true}, defaultBarWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateBarWidth(tt.paneWidth, tt.m)
			if got != tt.want {
				t.Errorf("EstimateBarWidth(%v) = %v, want %v", tt.paneWidth, got, tt.want)
			}
		})
	}
}
