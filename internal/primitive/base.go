// Package primitive implements the custom drawing objects attached to host
// series. Each primitive owns a small data snapshot, replaced wholesale by
// SetData (no diffing), and a pure pixel-space draw routine invoked by the
// host through PaneViews.
package primitive

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// ZOrder controls stacking of a primitive's drawing against the host's own
// series rendering.
type ZOrder string

const (
	ZBottom ZOrder = "bottom"
	ZNormal ZOrder = "normal"
	ZTop    ZOrder = "top"
)

// AttachContext is the non-owning view of the host a primitive captures on
// attach: coordinate mappings for the pane of the series it is attached to,
// the attached series' data, and a fire-and-forget redraw request callback
// coalesced by the host's own scheduling.
type AttachContext interface {
	Mapping() render.Mapping
	BarAt(logical int) (model.Bar, bool)
	RequestUpdate()
}

// PaneView is one draw strategy tagged with its z-order.
type PaneView struct {
	ZOrder ZOrder
	Draw   func(cv render.Canvas)
}

// Primitive is the host-facing callback surface. The host invokes Attached
// when the primitive is attached to a series, Detached on removal,
// UpdateAllViews before a redraw, and PaneViews to collect draw strategies.
type Primitive interface {
	Attached(ctx AttachContext)
	Detached()
	UpdateAllViews()
	PaneViews() []PaneView
}

// Base implements the shared attach/detach plumbing. Concrete primitives
// embed it and call requestUpdate after replacing their snapshot.
type Base struct {
	ctx AttachContext
}

// Attached captures the host context.
func (b *Base) Attached(ctx AttachContext) { b.ctx = ctx }

// Detached releases the host context.
func (b *Base) Detached() { b.ctx = nil }

// UpdateAllViews is a no-op: primitives rebuild nothing between draws, their
// snapshot is already current.
func (b *Base) UpdateAllViews() {}

func (b *Base) attached() bool { return b.ctx != nil }

func (b *Base) mapping() render.Mapping {
	return b.ctx.Mapping()
}

func (b *Base) barAt(logical int) (model.Bar, bool) {
	if b.ctx == nil {
		return model.Bar{}, false
	}
	return b.ctx.BarAt(logical)
}

func (b *Base) requestUpdate() {
	if b.ctx != nil {
		b.ctx.RequestUpdate()
	}
}
