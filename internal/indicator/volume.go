package indicator

import "chartkit/internal/model"

func init() {
	Register(&Definition{
		Name:    "Volume",
		Overlay: false,
		Inputs: []InputSpec{
			{Name: "showMA", Title: "Show MA", Type: "bool", Default: false},
			{Name: "maLength", Title: "MA Length", Type: "int", Default: 20, Min: 1, Max: 500},
		},
		Plots: []model.PlotSpec{
			{ID: "volume", Title: "Volume", Style: model.StyleColumns},
			// Hidden unless the showMA input flag is on.
			{ID: "volMA", Title: "Volume MA", Style: model.StyleLine, Color: "#FF6D00", VisibleInput: "showMA"},
		},
		Compute: computeVolume,
	})
}

func computeVolume(bars []model.Bar, in Inputs) (*model.Result, error) {
	maLength := in.Int("maLength", 20)

	vols := make([]float64, len(bars))
	points := make([]model.PlotPoint, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
		color := "#26A69A"
		if b.Close < b.Open {
			color = "#EF5350"
		}
		points[i] = model.PlotPoint{Time: b.Time, Value: b.Volume, Color: color}
	}

	return &model.Result{
		Plots: map[string][]model.PlotPoint{
			"volume": points,
			"volMA":  toPoints(bars, smaSeries(vols, maLength)),
		},
	}, nil
}
