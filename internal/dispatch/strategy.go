package dispatch

import (
	"chartkit/internal/chart"
	"chartkit/internal/model"
)

// strategy maps one plot style onto a manager display operation. The set of
// strategies is closed: resolveStrategy covers every style tag and falls
// back to a plain line for anything unrecognized.
type strategy interface {
	render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig)
}

type lineStrategy struct {
	stepped     bool
	markersOnly bool
}

func (s lineStrategy) render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig) {
	cfg.Stepped = s.stepped
	cfg.MarkersOnly = s.markersOnly
	m.SetIndicatorData(id, pts, cfg)
}

type areaStrategy struct{}

func (areaStrategy) render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig) {
	m.SetAreaPlotData(id, pts, cfg)
}

type histogramStrategy struct{}

func (histogramStrategy) render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig) {
	m.SetHistogramData(id, pts, cfg)
}

type crossStrategy struct{}

func (crossStrategy) render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig) {
	m.SetCrossPlotData(id, pts, cfg)
}

type lineBreakStrategy struct {
	stepped bool
}

func (s lineBreakStrategy) render(m *chart.Manager, id string, pts []model.PlotPoint, cfg chart.SeriesConfig) {
	cfg.Stepped = s.stepped
	m.SetLineBrData(id, pts, cfg)
}

func resolveStrategy(style model.PlotStyle) strategy {
	switch style {
	case model.StyleHistogram, model.StyleColumns:
		return histogramStrategy{}
	case model.StyleCircles:
		return lineStrategy{markersOnly: true}
	case model.StyleCross:
		return crossStrategy{}
	case model.StyleStepline:
		return lineStrategy{stepped: true}
	case model.StyleSteplineBr:
		return lineBreakStrategy{stepped: true}
	case model.StyleArea:
		return areaStrategy{}
	case model.StyleLineBr:
		return lineBreakStrategy{}
	default:
		return lineStrategy{}
	}
}
