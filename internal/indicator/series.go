package indicator

import (
	"math"

	"chartkit/internal/model"
)

// nan is the "no data at this time" sentinel used during warmup.
var nan = math.NaN()

func closes(bars []model.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// smaSeries computes a simple moving average over a rolling window, NaN
// until the window is full.
func smaSeries(values []float64, length int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= length {
			sum -= values[i-length]
		}
		if i >= length-1 {
			out[i] = sum / float64(length)
		} else {
			out[i] = nan
		}
	}
	return out
}

// emaSeries computes an exponential moving average seeded with the first
// value.
func emaSeries(values []float64, length int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(length) + 1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

// rsiSeries computes the Relative Strength Index with Wilder smoothing, NaN
// until one full period has passed.
func rsiSeries(values []float64, length int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = nan
	}
	if len(values) <= length {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= length; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(length)
	avgLoss /= float64(length)
	out[length] = rsiValue(avgGain, avgLoss)

	n := float64(length)
	for i := length + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// stdevSeries computes the rolling population standard deviation, NaN until
// the window is full.
func stdevSeries(values []float64, length int) []float64 {
	out := make([]float64, len(values))
	mean := smaSeries(values, length)
	for i := range values {
		if i < length-1 {
			out[i] = nan
			continue
		}
		var sum float64
		for j := i - length + 1; j <= i; j++ {
			d := values[j] - mean[i]
			sum += d * d
		}
		out[i] = math.Sqrt(sum / float64(length))
	}
	return out
}

// toPoints pairs a value series with bar times.
func toPoints(bars []model.Bar, values []float64) []model.PlotPoint {
	out := make([]model.PlotPoint, len(bars))
	for i, b := range bars {
		out[i] = model.PlotPoint{Time: b.Time, Value: values[i]}
	}
	return out
}
