package indicator

import "chartkit/internal/model"

func init() {
	Register(&Definition{
		Name:    "RSI",
		Overlay: false,
		Inputs: []InputSpec{
			{Name: "length", Title: "Length", Type: "int", Default: 14, Min: 1, Max: 500},
		},
		Plots: []model.PlotSpec{
			{ID: "rsi", Title: "RSI", Style: model.StyleLine, Color: "#7E57C2"},
		},
		Compute: computeRSI,
	})
}

func computeRSI(bars []model.Bar, in Inputs) (*model.Result, error) {
	length := in.Int("length", 14)
	transp := 90.0
	return &model.Result{
		Plots: map[string][]model.PlotPoint{
			"rsi": toPoints(bars, rsiSeries(closes(bars), length)),
		},
		HLines: []model.HLineSpec{
			{ID: "upper", Price: 70, Color: "#787B86", Style: model.LineDashed},
			{ID: "lower", Price: 30, Color: "#787B86", Style: model.LineDashed},
		},
		HLineFills: []model.HLineFillSpec{
			{HLine1: "upper", HLine2: "lower", Color: "#7E57C2", Transp: &transp},
		},
	}, nil
}
