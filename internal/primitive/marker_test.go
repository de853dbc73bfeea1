package primitive

import (
	"testing"

	"chartkit/internal/model"
)

func TestMarkerAnchorsAboveBarAtHigh(t *testing.T) {
	p := NewMarker()
	ctx := &stubCtx{
		m:    &stubMapping{},
		bars: map[int]model.Bar{50: {Time: 50, High: 80, Low: 20, Close: 60}},
	}
	p.Attached(ctx)

	p.SetData(MarkerData{Markers: []model.MarkerSpec{
		{Time: 50, Shape: model.ShapeTriangleUp, Position: model.AboveBar, Color: "#26A69A"},
	}})

	cv := newRecCanvas(200, 200)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polygons) != 1 {
		t.Fatalf("want 1 polygon, got %d", len(cv.polygons))
	}
	// Identity mapping: y = high - offset, apex sits half above the center.
	apex := cv.polygons[0][0]
	wantY := 80.0 - markerOffsetPx - markerHalfSize
	if apex.X != 50 || apex.Y != wantY {
		t.Errorf("apex = (%v,%v), want (50,%v)", apex.X, apex.Y, wantY)
	}
}

func TestMarkerBelowBarAnchorsAtLow(t *testing.T) {
	p := NewMarker()
	ctx := &stubCtx{
		m:    &stubMapping{},
		bars: map[int]model.Bar{10: {Time: 10, High: 80, Low: 20, Close: 60}},
	}
	p.Attached(ctx)

	p.SetData(MarkerData{Markers: []model.MarkerSpec{
		{Time: 10, Shape: model.ShapeDiamond, Position: model.BelowBar},
	}})

	cv := newRecCanvas(200, 200)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polygons) != 1 {
		t.Fatalf("want 1 polygon, got %d", len(cv.polygons))
	}
	top := cv.polygons[0][0]
	wantY := 20.0 + markerOffsetPx - markerHalfSize
	if top.Y != wantY {
		t.Errorf("diamond top y = %v, want %v", top.Y, wantY)
	}
}

func TestMarkerSkipsUnresolvableBar(t *testing.T) {
	p := NewMarker()
	// No bar at the marker's logical index.
	p.Attached(&stubCtx{m: &stubMapping{}, bars: map[int]model.Bar{}})

	p.SetData(MarkerData{Markers: []model.MarkerSpec{
		{Time: 5, Shape: model.ShapeFlag, Position: model.AboveBar},
	}})

	cv := newRecCanvas(200, 200)
	p.PaneViews()[0].Draw(cv)

	if len(cv.polygons)+len(cv.lines) != 0 {
		t.Errorf("marker drew despite missing anchor bar")
	}
}

func TestMarkerTextDrawn(t *testing.T) {
	p := NewMarker()
	p.Attached(&stubCtx{
		m:    &stubMapping{},
		bars: map[int]model.Bar{7: {Time: 7, High: 90, Low: 30, Close: 50}},
	})

	p.SetData(MarkerData{Markers: []model.MarkerSpec{
		{Time: 7, Shape: model.ShapeXCross, Position: model.AtBar, Text: "exit"},
	}})

	cv := newRecCanvas(200, 200)
	p.PaneViews()[0].Draw(cv)

	if len(cv.lines) != 2 {
		t.Errorf("xcross wants 2 strokes, got %d", len(cv.lines))
	}
	if len(cv.texts) != 1 || cv.texts[0] != "exit" {
		t.Errorf("marker text not drawn: %v", cv.texts)
	}
}
