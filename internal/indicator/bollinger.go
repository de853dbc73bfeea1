package indicator

import "chartkit/internal/model"

func init() {
	Register(&Definition{
		Name:    "Bollinger Bands",
		Overlay: true,
		Inputs: []InputSpec{
			{Name: "length", Title: "Length", Type: "int", Default: 20, Min: 1, Max: 500},
			{Name: "mult", Title: "StdDev", Type: "float", Default: 2.0, Min: 0.1, Max: 50},
		},
		Plots: []model.PlotSpec{
			{ID: "basis", Title: "Basis", Style: model.StyleLine, Color: "#FF6D00"},
			{ID: "upper", Title: "Upper", Style: model.StyleLine, Color: "#2962FF"},
			{ID: "lower", Title: "Lower", Style: model.StyleLine, Color: "#2962FF"},
		},
		Compute: computeBollinger,
	})
}

func computeBollinger(bars []model.Bar, in Inputs) (*model.Result, error) {
	length := in.Int("length", 20)
	mult := in.Float("mult", 2.0)

	src := closes(bars)
	basis := smaSeries(src, length)
	dev := stdevSeries(src, length)

	upper := make([]float64, len(src))
	lower := make([]float64, len(src))
	for i := range src {
		upper[i] = basis[i] + mult*dev[i]
		lower[i] = basis[i] - mult*dev[i]
	}

	transp := 90.0
	return &model.Result{
		Plots: map[string][]model.PlotPoint{
			"basis": toPoints(bars, basis),
			"upper": toPoints(bars, upper),
			"lower": toPoints(bars, lower),
		},
		PlotFills: []model.PlotFillSpec{
			{Plot1: "upper", Plot2: "lower", Color: "#2962FF", Transp: &transp},
		},
	}, nil
}
