package scene

import (
	"chartkit/internal/model"
	"chartkit/internal/render"
)

// attachCtx is the host context handed to a primitive on attach. It resolves
// the pane lazily so a series moved after attach maps correctly.
type attachCtx struct {
	series *Series
}

func (c *attachCtx) Mapping() render.Mapping {
	return &paneMapping{host: c.series.host, pane: c.series.pane}
}

func (c *attachCtx) BarAt(logical int) (model.Bar, bool) {
	return c.series.BarAt(logical)
}

func (c *attachCtx) RequestUpdate() {
	c.series.host.requestUpdate()
}
