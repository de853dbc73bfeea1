package dispatch

import (
	"chartkit/internal/indicator"
	"chartkit/internal/model"
)

// plotVisible resolves a plot's visibility signals in precedence order:
// display:none always hides; then an explicit per-plot flag; then a boolean
// input named by the plot; then a runtime visibility flag from the result;
// finally a plot with no real values at all is hidden.
func plotVisible(spec model.PlotSpec, pts []model.PlotPoint, in indicator.Inputs, res *model.Result) bool {
	if spec.Display == model.DisplayNone {
		return false
	}
	if spec.Visible != nil {
		return *spec.Visible
	}
	if spec.VisibleInput != "" {
		if v, ok := in.Bool(spec.VisibleInput); ok {
			return v
		}
	}
	if spec.VisibleFlag != "" {
		if v, ok := res.Visibility[spec.VisibleFlag]; ok {
			return v
		}
	}
	return model.HasAnyValue(pts)
}
