package scene

import (
	"encoding/json"
	"math"
	"testing"

	"chartkit/internal/chart"
	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

func pts(times ...int64) []model.PlotPoint {
	out := make([]model.PlotPoint, len(times))
	for i, t := range times {
		out[i] = model.PlotPoint{Time: t, Value: float64(10 + i)}
	}
	return out
}

func TestAxisMergesDistinctTimesSorted(t *testing.T) {
	h := NewHost()
	a := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	b := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})

	a.SetData(pts(30, 10))
	b.SetData(pts(20, 10))

	want := []int64{10, 20, 30}
	if len(h.axis) != len(want) {
		t.Fatalf("axis = %v, want %v", h.axis, want)
	}
	for i, tm := range want {
		if h.axis[i] != tm {
			t.Errorf("axis[%d] = %d, want %d", i, h.axis[i], tm)
		}
	}
}

func TestTimeToXCentersBars(t *testing.T) {
	h := NewHost()
	h.Resize(100, 100)
	s := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	s.SetData(pts(10, 20, 30, 40))

	// Full range: 4 bars over 100px = 25px per bar, centers at 12.5, 37.5...
	ts := h.TimeScale()
	x, ok := ts.TimeToX(10)
	if !ok || x != 12.5 {
		t.Errorf("TimeToX(10) = %v,%v, want 12.5,true", x, ok)
	}
	x, ok = ts.TimeToX(40)
	if !ok || x != 87.5 {
		t.Errorf("TimeToX(40) = %v,%v, want 87.5,true", x, ok)
	}
	if _, ok := ts.TimeToX(99); ok {
		t.Error("off-axis time mapped")
	}

	// Round-trips through XToLogical.
	for i, tm := range []int64{10, 20, 30, 40} {
		x, _ := ts.TimeToX(tm)
		idx, ok := ts.XToLogical(x)
		if !ok || idx != i {
			t.Errorf("XToLogical(TimeToX(%d)) = %d,%v, want %d", tm, idx, ok, i)
		}
	}
}

func TestVisibleRangePinningExcludesOutside(t *testing.T) {
	h := NewHost()
	h.Resize(100, 100)
	s := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	s.SetData(pts(10, 20, 30, 40, 50, 60))

	h.SetVisibleRange(2, 4) // bars 30 and 40
	ts := h.TimeScale()
	if _, ok := ts.TimeToX(30); !ok {
		t.Error("visible bar unmappable")
	}
	// One bar of tolerance on each side, so index 5 still maps but 0 does not.
	if _, ok := ts.TimeToX(60); !ok {
		t.Error("bar just past the edge should stay mappable")
	}
	if _, ok := ts.TimeToX(10); ok {
		t.Error("bar beyond the edge tolerance mapped")
	}
}

func TestPriceToYAutoscaleIncludesInvisibleAnchors(t *testing.T) {
	h := NewHost()
	h.Resize(100, 100)
	visible := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	visible.SetData([]model.PlotPoint{{Time: 10, Value: 50}, {Time: 20, Value: 60}})

	yMid, ok := visible.PriceToY(55)
	if !ok {
		t.Fatal("PriceToY failed")
	}

	// An invisible anchor with a much larger value widens the pane range,
	// pushing the old midpoint down the pane.
	anchor := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: false})
	anchor.SetData([]model.PlotPoint{{Time: 10, Value: 200}})

	yAfter, ok := visible.PriceToY(55)
	if !ok {
		t.Fatal("PriceToY failed after anchor")
	}
	if yAfter <= yMid {
		t.Errorf("anchor did not widen autoscale: y %v -> %v", yMid, yAfter)
	}

	// Higher price maps to smaller y (inverted pixel axis).
	yHigh, _ := visible.PriceToY(60)
	yLow, _ := visible.PriceToY(50)
	if yHigh >= yLow {
		t.Errorf("y axis not inverted: y(60)=%v y(50)=%v", yHigh, yLow)
	}
}

func TestNaNValuesExcludedFromAutoscale(t *testing.T) {
	h := NewHost()
	s := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	s.SetData([]model.PlotPoint{
		{Time: 10, Value: math.NaN()},
		{Time: 20, Value: 50},
		{Time: 30, Value: 70},
	})

	min, max, ok := h.paneValueRange(0)
	if !ok || min != 50 || max != 70 {
		t.Errorf("paneValueRange = %v..%v,%v, want 50..70,true", min, max, ok)
	}
}

func TestMoveToPaneCreatesAndRemoveShifts(t *testing.T) {
	h := NewHost()
	a := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	b := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})

	a.MoveToPane(1)
	b.MoveToPane(2)
	if h.PaneCount() != 3 {
		t.Fatalf("PaneCount = %d, want 3", h.PaneCount())
	}
	if h.SeriesInPane(1) != 1 || h.SeriesInPane(2) != 1 {
		t.Fatalf("series not distributed: %d/%d", h.SeriesInPane(1), h.SeriesInPane(2))
	}

	h.RemoveSeries(a)
	h.RemovePane(1)
	if h.PaneCount() != 2 {
		t.Fatalf("PaneCount after removal = %d, want 2", h.PaneCount())
	}
	// b shifted down into pane 1.
	if h.SeriesInPane(1) != 1 {
		t.Errorf("series did not shift into freed pane")
	}

	h.RemovePane(0)
	if h.PaneCount() != 2 {
		t.Errorf("primary pane was removed")
	}
}

func TestSnapshotClearsDirtyAndRoundTrips(t *testing.T) {
	h := NewHost()
	s := h.AddSeries(chart.SeriesCandlestick, chart.SeriesOptions{Visible: true})
	s.SetCandles([]model.CandlePoint{{Time: 10, Open: 1, High: 2, Low: 0.5, Close: 1.5}})

	if !h.Dirty() {
		t.Fatal("host not dirty after data change")
	}
	raw, err := h.SnapshotJSON()
	if err != nil {
		t.Fatal(err)
	}
	if h.Dirty() {
		t.Error("dirty flag survived snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	if len(snap.Panes) != 1 || len(snap.Panes[0].Series) != 1 {
		t.Fatalf("snapshot shape wrong: %+v", snap)
	}
	if snap.Panes[0].Series[0].Type != chart.SeriesCandlestick {
		t.Errorf("series type = %v", snap.Panes[0].Series[0].Type)
	}
}

func TestSnapshotJSONCarriesMissingValues(t *testing.T) {
	h := NewHost()
	s := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true})
	// A warmup window: the leading points carry the no-data sentinel.
	s.SetData([]model.PlotPoint{
		{Time: 60, Value: math.NaN()},
		{Time: 120, Value: math.NaN()},
		{Time: 180, Value: 101.5},
	})

	raw, err := h.SnapshotJSON()
	if err != nil {
		t.Fatalf("SnapshotJSON failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("SnapshotJSON returned no bytes")
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("snapshot not valid JSON: %v", err)
	}
	pts := snap.Panes[0].Series[0].Points
	if len(pts) != 3 {
		t.Fatalf("points = %d, want 3", len(pts))
	}
	// The sentinel survives the round trip as null and comes back as NaN.
	if !pts[0].Missing() || !pts[1].Missing() {
		t.Errorf("warmup points lost the no-data sentinel: %+v", pts[:2])
	}
	if pts[2].Value != 101.5 {
		t.Errorf("real value = %v, want 101.5", pts[2].Value)
	}
}

func TestRenderPaneOrdersCommandsByZOrder(t *testing.T) {
	h := NewHost()
	h.Resize(100, 100)
	s := h.AddSeries(chart.SeriesLine, chart.SeriesOptions{Visible: true}).(*Series)
	s.SetData([]model.PlotPoint{{Time: 10, Value: 1}, {Time: 20, Value: 2}})

	ln := primitive.NewLineDraw()
	ln.SetData(primitive.LineDrawData{Lines: []model.LineSpec{
		{Time1: 10, Price1: 1, Time2: 20, Price2: 2, Color: "#fff"},
	}})
	s.AttachPrimitive(ln)

	bg := primitive.NewBackground()
	bg.SetData(primitive.BackgroundData{Colors: []model.BgColor{{Time: 10, Color: "#00000020"}}})
	s.AttachPrimitive(bg)

	// Background stacks at the bottom even though it was attached last.
	cmds := h.Snapshot().Panes[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("commands = %d, want 2", len(cmds))
	}
	if cmds[0].Op != "fillRect" || cmds[1].Op != "line" {
		t.Errorf("z-order wrong: %s then %s", cmds[0].Op, cmds[1].Op)
	}
}

func TestTableOverlayLifecycle(t *testing.T) {
	h := NewHost()
	handle := h.CreateTable(model.TableSpec{
		Position: model.TableTopRight,
		Rows:     [][]model.TableCell{{{Text: "hi"}}},
	}, 0)

	snap := h.Snapshot()
	if len(snap.Tables) != 1 || snap.Tables[0].Spec.Rows[0][0].Text != "hi" {
		t.Fatalf("table missing from snapshot: %+v", snap.Tables)
	}

	handle.Remove()
	snap = h.Snapshot()
	if len(snap.Tables) != 0 {
		t.Errorf("table still present after removal")
	}
}
