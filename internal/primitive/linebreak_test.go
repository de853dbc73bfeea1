package primitive

import (
	"math"
	"testing"

	"chartkit/internal/model"
)

func nan() float64 { return math.NaN() }

func TestLineBreakSplitsAtGap(t *testing.T) {
	p := NewLineBreak()
	ctx := &stubCtx{m: &stubMapping{}}
	p.Attached(ctx)

	p.SetData(LineBreakData{
		Points: []model.PlotPoint{
			{Time: 1, Value: 10},
			{Time: 2, Value: 11},
			{Time: 3, Value: nan()},
			{Time: 4, Value: nan()},
			{Time: 5, Value: 12},
			{Time: 6, Value: 13},
		},
		Color: "#FF0000",
	})

	cv := newRecCanvas(100, 100)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polylines) != 2 {
		t.Fatalf("want 2 segments, got %d", len(cv.polylines))
	}
	if len(cv.polylines[0]) != 2 || len(cv.polylines[1]) != 2 {
		t.Errorf("want 2 points per segment, got %d and %d",
			len(cv.polylines[0]), len(cv.polylines[1]))
	}
}

func TestLineBreakUnmappablePointKeepsSegment(t *testing.T) {
	p := NewLineBreak()
	// Only times 1..2 and 5..6 are mappable; 3 falls outside but is a real
	// value, so the segment must not break.
	ctx := &stubCtx{m: &stubMapping{minTime: 1, maxTime: 2}}
	p.Attached(ctx)

	p.SetData(LineBreakData{
		Points: []model.PlotPoint{
			{Time: 1, Value: 10},
			{Time: 3, Value: 11}, // outside window
			{Time: 2, Value: 12},
		},
	})

	cv := newRecCanvas(100, 100)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polylines) != 1 {
		t.Fatalf("want 1 segment, got %d", len(cv.polylines))
	}
	if len(cv.polylines[0]) != 2 {
		t.Errorf("want 2 points in segment, got %d", len(cv.polylines[0]))
	}
}

func TestLineBreakStepped(t *testing.T) {
	p := NewLineBreak()
	p.Attached(&stubCtx{m: &stubMapping{}})

	p.SetData(LineBreakData{
		Points: []model.PlotPoint{
			{Time: 1, Value: 10},
			{Time: 2, Value: 20},
		},
		Stepped: true,
	})

	cv := newRecCanvas(100, 100)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polylines) != 1 {
		t.Fatalf("want 1 segment, got %d", len(cv.polylines))
	}
	seg := cv.polylines[0]
	if len(seg) != 3 {
		t.Fatalf("stepped segment wants 3 points, got %d", len(seg))
	}
	// Inserted corner carries the previous y at the new x.
	if seg[1].X != 2 || seg[1].Y != 10 {
		t.Errorf("corner point = (%v,%v), want (2,10)", seg[1].X, seg[1].Y)
	}
}

func TestLineBreakSinglePointDrawsDot(t *testing.T) {
	p := NewLineBreak()
	p.Attached(&stubCtx{m: &stubMapping{}})

	p.SetData(LineBreakData{
		Points: []model.PlotPoint{
			{Time: 1, Value: nan()},
			{Time: 2, Value: 10},
			{Time: 3, Value: nan()},
		},
	})

	cv := newRecCanvas(100, 100)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polylines) != 1 {
		t.Fatalf("want 1 segment, got %d", len(cv.polylines))
	}
	if len(cv.polylines[0]) != 1 {
		t.Errorf("want single-point segment, got %d points", len(cv.polylines[0]))
	}
}

func TestLineBreakDetachedDrawsNothing(t *testing.T) {
	p := NewLineBreak()
	p.SetData(LineBreakData{Points: []model.PlotPoint{{Time: 1, Value: 10}}})

	cv := newRecCanvas(100, 100)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polylines) != 0 {
		t.Errorf("detached primitive drew %d segments", len(cv.polylines))
	}
}
