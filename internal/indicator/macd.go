package indicator

import "chartkit/internal/model"

func init() {
	Register(&Definition{
		Name:    "MACD",
		Overlay: false,
		Inputs: []InputSpec{
			{Name: "fast", Title: "Fast Length", Type: "int", Default: 12, Min: 1, Max: 500},
			{Name: "slow", Title: "Slow Length", Type: "int", Default: 26, Min: 1, Max: 500},
			{Name: "signal", Title: "Signal Length", Type: "int", Default: 9, Min: 1, Max: 500},
		},
		Plots: []model.PlotSpec{
			{ID: "hist", Title: "Histogram", Style: model.StyleHistogram},
			{ID: "macd", Title: "MACD", Style: model.StyleLine, Color: "#2962FF"},
			{ID: "signal", Title: "Signal", Style: model.StyleLine, Color: "#FF6D00"},
		},
		Compute: computeMACD,
	})
}

func computeMACD(bars []model.Bar, in Inputs) (*model.Result, error) {
	fast := in.Int("fast", 12)
	slow := in.Int("slow", 26)
	signalLen := in.Int("signal", 9)

	src := closes(bars)
	fastEMA := emaSeries(src, fast)
	slowEMA := emaSeries(src, slow)

	macd := make([]float64, len(src))
	for i := range src {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	signal := emaSeries(macd, signalLen)

	hist := make([]model.PlotPoint, len(bars))
	for i, b := range bars {
		v := macd[i] - signal[i]
		color := "#26A69A"
		if v < 0 {
			color = "#EF5350"
		}
		hist[i] = model.PlotPoint{Time: b.Time, Value: v, Color: color}
	}

	return &model.Result{
		Plots: map[string][]model.PlotPoint{
			"hist":   hist,
			"macd":   toPoints(bars, macd),
			"signal": toPoints(bars, signal),
		},
		HLines: []model.HLineSpec{
			{ID: "zero", Price: 0, Color: "#787B86", Style: model.LineDotted},
		},
	}, nil
}
