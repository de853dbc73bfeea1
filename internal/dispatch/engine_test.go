package dispatch

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"chartkit/internal/chart"
	"chartkit/internal/indicator"
	"chartkit/internal/model"
	"chartkit/internal/scene"
)

func makeBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		base := 100 + float64(i)
		bars[i] = model.Bar{
			Time:  int64(60 * (i + 1)),
			Open:  base,
			High:  base + 2,
			Low:   base - 2,
			Close: base + 1,
		}
	}
	return bars
}

// register installs a throwaway indicator definition for one test. The
// registry is process-global, so each test uses a unique name.
func register(t *testing.T, def *indicator.Definition) {
	t.Helper()
	indicator.Register(def)
}

func newTestEngine(t *testing.T) (*Engine, *scene.Host) {
	t.Helper()
	host := scene.NewHost()
	host.Resize(1000, 600)
	mgr := chart.NewManager(host)
	return NewEngine(mgr, nil, nil), host
}

func TestSelectUnknownIndicator(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Select("no-such-indicator"); err == nil {
		t.Fatal("expected error for unknown indicator")
	}
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestSelectWithoutBarsStaysIdle(t *testing.T) {
	register(t, &indicator.Definition{
		Name:  "test_no_bars",
		Plots: []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			return &model.Result{}, nil
		},
	})

	e, _ := newTestEngine(t)
	if err := e.Select("test_no_bars"); err != nil {
		t.Fatal(err)
	}
	// Recalculate with no bars lands back in idle, not rendered.
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestComputeErrorYieldsBlankPane(t *testing.T) {
	register(t, &indicator.Definition{
		Name:  "test_err",
		Plots: []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			return nil, errors.New("boom")
		},
	})

	e, host := newTestEngine(t)
	e.SetBars(makeBars(10))
	if err := e.Select("test_err"); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateError {
		t.Fatalf("state = %v, want error", e.State())
	}
	// The candle series survives; no indicator overlay does.
	if host.SeriesInPane(0) != 1 {
		t.Errorf("pane 0 series = %d, want 1 (candles only)", host.SeriesInPane(0))
	}
}

func TestComputePanicRecovered(t *testing.T) {
	register(t, &indicator.Definition{
		Name:  "test_panic",
		Plots: []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			panic("index out of range")
		},
	})

	e, _ := newTestEngine(t)
	e.SetBars(makeBars(10))
	if err := e.Select("test_panic"); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateError {
		t.Fatalf("state = %v, want error after panic", e.State())
	}
	// The engine stays usable.
	e.ClearSelection()
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle after clear", e.State())
	}
}

func TestNonOverlayPlotsLandInSecondaryPane(t *testing.T) {
	register(t, &indicator.Definition{
		Name:    "test_osc",
		Overlay: false,
		Plots: []model.PlotSpec{
			{ID: "hist", Style: model.StyleHistogram},
		},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			pts := make([]model.PlotPoint, len(bars))
			for i, b := range bars {
				pts[i] = model.PlotPoint{Time: b.Time, Value: b.Close - b.Open}
			}
			return &model.Result{
				Plots: map[string][]model.PlotPoint{"hist": pts},
				HLines: []model.HLineSpec{
					{ID: "upper", Price: 1.5},
					{ID: "lower", Price: -1.5},
				},
				HLineFills: []model.HLineFillSpec{
					{HLine1: "upper", HLine2: "lower", Color: "#2962FF"},
				},
			}, nil
		},
	})

	e, host := newTestEngine(t)
	e.SetBars(makeBars(100))
	if err := e.Select("test_osc"); err != nil {
		t.Fatal(err)
	}
	if e.State() != StateRendered {
		t.Fatalf("state = %v, want rendered", e.State())
	}
	if host.PaneCount() != 2 {
		t.Fatalf("panes = %d, want 2", host.PaneCount())
	}
	// Pane 0: candles only. Pane 1: histogram plot, one series per hline
	// and one anchor for the fill band.
	if host.SeriesInPane(0) != 1 {
		t.Errorf("pane 0 series = %d, want 1", host.SeriesInPane(0))
	}
	if got := host.SeriesInPane(1); got != 4 {
		t.Errorf("pane 1 series = %d, want 4 (plot + 2 hlines + fill anchor)", got)
	}

	e.ClearSelection()
	if host.PaneCount() != 1 {
		t.Errorf("secondary pane not reclaimed: %d panes", host.PaneCount())
	}
}

func TestOverlayPlotsStayInPrimaryPane(t *testing.T) {
	register(t, &indicator.Definition{
		Name:    "test_ma",
		Overlay: true,
		Plots:   []model.PlotSpec{{ID: "ma"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			pts := make([]model.PlotPoint, len(bars))
			for i, b := range bars {
				pts[i] = model.PlotPoint{Time: b.Time, Value: b.Close}
			}
			return &model.Result{Plots: map[string][]model.PlotPoint{"ma": pts}}, nil
		},
	})

	e, host := newTestEngine(t)
	e.SetBars(makeBars(20))
	if err := e.Select("test_ma"); err != nil {
		t.Fatal(err)
	}
	if host.PaneCount() != 1 {
		t.Errorf("overlay opened a pane: %d", host.PaneCount())
	}
	if host.SeriesInPane(0) != 2 {
		t.Errorf("pane 0 series = %d, want 2 (candles + ma)", host.SeriesInPane(0))
	}
}

func TestSetInputRecomputes(t *testing.T) {
	var gotLen int
	register(t, &indicator.Definition{
		Name:   "test_len",
		Inputs: []indicator.InputSpec{{Name: "length", Type: "int", Default: 14}},
		Plots:  []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			gotLen = in.Int("length", 0)
			return &model.Result{}, nil
		},
	})

	e, _ := newTestEngine(t)
	e.SetBars(makeBars(5))
	if err := e.Select("test_len"); err != nil {
		t.Fatal(err)
	}
	if gotLen != 14 {
		t.Fatalf("default length = %d, want 14", gotLen)
	}
	e.SetInput("length", 21)
	if gotLen != 21 {
		t.Errorf("length after SetInput = %d, want 21", gotLen)
	}
}

func TestAppendBarReplacesFormingBar(t *testing.T) {
	var computeBars []model.Bar
	register(t, &indicator.Definition{
		Name:  "test_live",
		Plots: []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			computeBars = bars
			return &model.Result{}, nil
		},
	})

	e, _ := newTestEngine(t)
	bars := makeBars(3)
	e.SetBars(bars)
	if err := e.Select("test_live"); err != nil {
		t.Fatal(err)
	}

	// Same time: the forming bar is replaced, not appended.
	update := bars[2]
	update.Close = 999
	e.AppendBar(update)
	if len(computeBars) != 3 {
		t.Fatalf("bars = %d, want 3 after same-time update", len(computeBars))
	}
	if computeBars[2].Close != 999 {
		t.Errorf("forming bar not replaced: close = %v", computeBars[2].Close)
	}

	// New time: appended.
	next := model.Bar{Time: bars[2].Time + 60, Open: 1, High: 2, Low: 0, Close: 1}
	e.AppendBar(next)
	if len(computeBars) != 4 {
		t.Errorf("bars = %d, want 4 after new bar", len(computeBars))
	}
}

func TestSetBarsEmptyClearsEverything(t *testing.T) {
	register(t, &indicator.Definition{
		Name:    "test_clear",
		Overlay: false,
		Plots:   []model.PlotSpec{{ID: "p"}},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			pts := []model.PlotPoint{{Time: bars[0].Time, Value: 1}}
			return &model.Result{Plots: map[string][]model.PlotPoint{"p": pts}}, nil
		},
	})

	e, host := newTestEngine(t)
	e.SetBars(makeBars(10))
	if err := e.Select("test_clear"); err != nil {
		t.Fatal(err)
	}
	if host.PaneCount() != 2 {
		t.Fatalf("setup: panes = %d, want 2", host.PaneCount())
	}

	e.SetBars(nil)
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
	if host.PaneCount() != 1 {
		t.Errorf("panes = %d, want 1 after clearing bars", host.PaneCount())
	}
}

func TestStrategyRouting(t *testing.T) {
	cases := []struct {
		style model.PlotStyle
		want  string
	}{
		{model.StyleLine, "dispatch.lineStrategy"},
		{model.StyleHistogram, "dispatch.histogramStrategy"},
		{model.StyleColumns, "dispatch.histogramStrategy"},
		{model.StyleCircles, "dispatch.lineStrategy"},
		{model.StyleCross, "dispatch.crossStrategy"},
		{model.StyleStepline, "dispatch.lineStrategy"},
		{model.StyleSteplineBr, "dispatch.lineBreakStrategy"},
		{model.StyleArea, "dispatch.areaStrategy"},
		{model.StyleLineBr, "dispatch.lineBreakStrategy"},
		{model.PlotStyle("weird"), "dispatch.lineStrategy"},
	}
	for _, tc := range cases {
		got := fmt.Sprintf("%T", resolveStrategy(tc.style))
		if got != tc.want {
			t.Errorf("resolveStrategy(%q) = %s, want %s", tc.style, got, tc.want)
		}
	}
	if s := resolveStrategy(model.StyleCircles).(lineStrategy); !s.markersOnly {
		t.Error("circles strategy is not markers-only")
	}
	if s := resolveStrategy(model.StyleStepline).(lineStrategy); !s.stepped {
		t.Error("stepline strategy is not stepped")
	}
	if s := resolveStrategy(model.StyleSteplineBr).(lineBreakStrategy); !s.stepped {
		t.Error("stepline_br strategy is not stepped")
	}
}

func TestPlotVisiblePrecedence(t *testing.T) {
	truep := true
	falsep := false
	realPts := []model.PlotPoint{{Time: 1, Value: 5}}
	nanPts := []model.PlotPoint{{Time: 1, Value: math.NaN()}}

	cases := []struct {
		name string
		spec model.PlotSpec
		pts  []model.PlotPoint
		in   indicator.Inputs
		res  *model.Result
		want bool
	}{
		{"display none beats explicit visible",
			model.PlotSpec{Display: model.DisplayNone, Visible: &truep}, realPts, nil, &model.Result{}, false},
		{"explicit visible false",
			model.PlotSpec{Visible: &falsep}, realPts, nil, &model.Result{}, false},
		{"explicit visible beats input flag",
			model.PlotSpec{Visible: &truep, VisibleInput: "show"},
			realPts, indicator.Inputs{"show": false}, &model.Result{}, true},
		{"input flag consulted",
			model.PlotSpec{VisibleInput: "show"},
			realPts, indicator.Inputs{"show": false}, &model.Result{}, false},
		{"input flag beats result flag",
			model.PlotSpec{VisibleInput: "show", VisibleFlag: "f"},
			realPts, indicator.Inputs{"show": true},
			&model.Result{Visibility: map[string]bool{"f": false}}, true},
		{"missing input falls through to result flag",
			model.PlotSpec{VisibleInput: "show", VisibleFlag: "f"},
			realPts, indicator.Inputs{},
			&model.Result{Visibility: map[string]bool{"f": false}}, false},
		{"result flag consulted",
			model.PlotSpec{VisibleFlag: "f"},
			realPts, nil, &model.Result{Visibility: map[string]bool{"f": true}}, true},
		{"all-NaN plot hidden by default",
			model.PlotSpec{}, nanPts, nil, &model.Result{}, false},
		{"real values visible by default",
			model.PlotSpec{}, realPts, nil, &model.Result{}, true},
	}
	for _, tc := range cases {
		if got := plotVisible(tc.spec, tc.pts, tc.in, tc.res); got != tc.want {
			t.Errorf("%s: plotVisible = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHiddenPlotNotRendered(t *testing.T) {
	falsep := false
	register(t, &indicator.Definition{
		Name:    "test_hidden",
		Overlay: true,
		Plots: []model.PlotSpec{
			{ID: "shown"},
			{ID: "hidden", Visible: &falsep},
		},
		Compute: func(bars []model.Bar, in indicator.Inputs) (*model.Result, error) {
			pts := []model.PlotPoint{{Time: bars[0].Time, Value: 1}}
			return &model.Result{Plots: map[string][]model.PlotPoint{
				"shown":  pts,
				"hidden": pts,
			}}, nil
		},
	})

	e, host := newTestEngine(t)
	e.SetBars(makeBars(5))
	if err := e.Select("test_hidden"); err != nil {
		t.Fatal(err)
	}
	// Candles + the one visible plot.
	if got := host.SeriesInPane(0); got != 2 {
		t.Errorf("pane 0 series = %d, want 2", got)
	}
}
