package indicator

import "chartkit/internal/model"

func init() {
	Register(&Definition{
		Name:    "Moving Average",
		Overlay: true,
		Inputs: []InputSpec{
			{Name: "length", Title: "Length", Type: "int", Default: 20, Min: 1, Max: 500},
		},
		Plots: []model.PlotSpec{
			{ID: "ma", Title: "MA", Style: model.StyleLine, Color: "#2962FF"},
		},
		Compute: computeSMA,
	})
}

func computeSMA(bars []model.Bar, in Inputs) (*model.Result, error) {
	length := in.Int("length", 20)
	return &model.Result{
		Plots: map[string][]model.PlotPoint{
			"ma": toPoints(bars, smaSeries(closes(bars), length)),
		},
	}, nil
}
