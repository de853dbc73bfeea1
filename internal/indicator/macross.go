package indicator

import (
	"fmt"
	"math"

	"chartkit/internal/model"
)

func init() {
	Register(&Definition{
		Name:    "MA Cross",
		Overlay: true,
		Inputs: []InputSpec{
			{Name: "fast", Title: "Fast Length", Type: "int", Default: 9, Min: 1, Max: 500},
			{Name: "slow", Title: "Slow Length", Type: "int", Default: 21, Min: 1, Max: 500},
			{Name: "paintBars", Title: "Color Bars", Type: "bool", Default: true},
		},
		Plots: []model.PlotSpec{
			{ID: "fast", Title: "Fast MA", Style: model.StyleLine, Color: "#26A69A"},
			{ID: "slow", Title: "Slow MA", Style: model.StyleLine, Color: "#EF5350"},
		},
		Compute: computeMACross,
	})
}

// computeMACross exercises most companion channels: markers on crossovers,
// labels at the last cross, background and bar coloring by trend, and a
// summary table.
func computeMACross(bars []model.Bar, in Inputs) (*model.Result, error) {
	fastLen := in.Int("fast", 9)
	slowLen := in.Int("slow", 21)
	paintBars, _ := in.Bool("paintBars")

	src := closes(bars)
	fast := smaSeries(src, fastLen)
	slow := smaSeries(src, slowLen)

	res := &model.Result{
		Plots: map[string][]model.PlotPoint{
			"fast": toPoints(bars, fast),
			"slow": toPoints(bars, slow),
		},
	}

	crossUps, crossDowns := 0, 0
	for i := 1; i < len(bars); i++ {
		if math.IsNaN(fast[i-1]) || math.IsNaN(slow[i-1]) {
			continue // warmup
		}
		wasAbove := fast[i-1] > slow[i-1]
		isAbove := fast[i] > slow[i]
		if wasAbove == isAbove {
			continue
		}
		if isAbove {
			crossUps++
			res.Markers = append(res.Markers, model.MarkerSpec{
				Time: bars[i].Time, Shape: model.ShapeTriangleUp,
				Position: model.BelowBar, Color: "#26A69A", Text: "x",
			})
			res.BgColors = append(res.BgColors, model.BgColor{Time: bars[i].Time, Color: "#26A69A26"})
		} else {
			crossDowns++
			res.Markers = append(res.Markers, model.MarkerSpec{
				Time: bars[i].Time, Shape: model.ShapeTriangleDown,
				Position: model.AboveBar, Color: "#EF5350", Text: "x",
			})
			res.BgColors = append(res.BgColors, model.BgColor{Time: bars[i].Time, Color: "#EF535026"})
		}
	}

	if paintBars {
		for i, b := range bars {
			if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
				continue
			}
			color := "#26A69A"
			if fast[i] < slow[i] {
				color = "#EF5350"
			}
			res.BarColors = append(res.BarColors, model.BarColor{Time: b.Time, Color: color})
		}
	}

	res.Tables = []model.TableSpec{{
		Position: model.TableTopRight,
		Rows: [][]model.TableCell{
			{{Text: "Cross ups"}, {Text: fmt.Sprintf("%d", crossUps)}},
			{{Text: "Cross downs"}, {Text: fmt.Sprintf("%d", crossDowns)}},
		},
	}}
	return res, nil
}
