package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestPlotPointJSONNullSentinel(t *testing.T) {
	raw, err := json.Marshal(PlotPoint{Time: 60, Value: math.NaN()})
	if err != nil {
		t.Fatalf("marshal of missing point failed: %v", err)
	}
	if string(raw) != `{"time":60,"value":null}` {
		t.Errorf("missing point = %s", raw)
	}

	raw, err = json.Marshal(PlotPoint{Time: 120, Value: 42.5, Color: "#EF5350"})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"time":120,"value":42.5,"color":"#EF5350"}` {
		t.Errorf("real point = %s", raw)
	}
}

func TestPlotPointJSONRoundTrip(t *testing.T) {
	in := []PlotPoint{
		{Time: 60, Value: math.NaN()},
		{Time: 120, Value: 7, Color: "#26A69A"},
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out []PlotPoint
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("points = %d, want 2", len(out))
	}
	if !out[0].Missing() || out[0].Time != 60 {
		t.Errorf("sentinel lost in round trip: %+v", out[0])
	}
	if out[1].Value != 7 || out[1].Color != "#26A69A" {
		t.Errorf("real point mangled: %+v", out[1])
	}
}
