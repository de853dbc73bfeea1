package scene

import (
	"encoding/json"

	"chartkit/internal/chart"
	"chartkit/internal/model"
	"chartkit/internal/primitive"
)

// Snapshot is a serializable view of the whole scene: per-pane series data
// plus the recorded primitive draw commands, and any table overlays.
type Snapshot struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Panes  []PaneSnapshot `json:"panes"`
	Tables []TableContent `json:"tables,omitempty"`
}

// PaneSnapshot is one pane's series and draw commands.
type PaneSnapshot struct {
	Index    int              `json:"index"`
	Series   []SeriesSnapshot `json:"series"`
	Commands []DrawCommand    `json:"commands,omitempty"`
}

// SeriesSnapshot is one series' type, options and data.
type SeriesSnapshot struct {
	Type    chart.SeriesType    `json:"type"`
	Options chart.SeriesOptions `json:"options"`
	Points  []model.PlotPoint   `json:"points,omitempty"`
	Candles []model.CandlePoint `json:"candles,omitempty"`
	Markers []model.MarkerSpec  `json:"markers,omitempty"`
}

// TableContent is one placed table overlay.
type TableContent struct {
	Pane int             `json:"pane"`
	Spec model.TableSpec `json:"spec"`
}

// Snapshot renders every primitive and exports the scene. The dirty flag is
// cleared: redraw requests issued since the last snapshot are now served.
func (h *Host) Snapshot() *Snapshot {
	snap := &Snapshot{Width: h.width, Height: h.height}
	ph := h.paneHeight()

	for i, p := range h.panes {
		ps := PaneSnapshot{Index: i}
		for _, s := range p.series {
			ps.Series = append(ps.Series, SeriesSnapshot{
				Type:    s.typ,
				Options: s.opts,
				Points:  s.points,
				Candles: s.candles,
				Markers: s.markers,
			})
		}
		ps.Commands = h.renderPane(p, ph)
		snap.Panes = append(snap.Panes, ps)
	}
	for _, t := range h.tables {
		snap.Tables = append(snap.Tables, TableContent{Pane: t.pane, Spec: t.spec})
	}
	h.dirty = false
	return snap
}

// SnapshotJSON is Snapshot marshaled into immutable bytes, safe to hand to
// other goroutines.
func (h *Host) SnapshotJSON() ([]byte, error) {
	return json.Marshal(h.Snapshot())
}

// renderPane replays every primitive's pane views onto a command canvas in
// z-order: bottom first, then normal, then top, so stacking against the
// host's native drawing is stable.
func (h *Host) renderPane(p *pane, height float64) []DrawCommand {
	cv := newCommandCanvas(h.width, height)
	for _, z := range []primitive.ZOrder{primitive.ZBottom, primitive.ZNormal, primitive.ZTop} {
		for _, s := range p.series {
			for _, prim := range s.prims {
				prim.UpdateAllViews()
				for _, view := range prim.PaneViews() {
					if view.ZOrder == z && view.Draw != nil {
						view.Draw(cv)
					}
				}
			}
		}
	}
	return cv.cmds
}
