package model

import (
	"fmt"
	"math"
	"strings"
)

// defaultFillAlpha is the alpha byte applied to fill colors when no
// transparency percentage is given (25% opacity).
const defaultFillAlpha = 0x40

// ResolveFillColor combines a base hex color with an optional 0-100
// transparency percentage into an 8-digit #RRGGBBAA color. transp=0 is fully
// opaque, transp=100 fully transparent; alpha = round((1-transp/100)*255).
// A nil transp applies the default fill alpha. Already-alpha'd 8-digit base
// colors have their alpha replaced; malformed colors are returned unchanged.
func ResolveFillColor(base string, transp *float64) string {
	hex := strings.TrimPrefix(base, "#")
	switch len(hex) {
	case 6:
	case 8:
		hex = hex[:6]
	default:
		return base
	}

	alpha := uint8(defaultFillAlpha)
	if transp != nil {
		t := *transp
		if t < 0 {
			t = 0
		}
		if t > 100 {
			t = 100
		}
		alpha = uint8(math.Round((1 - t/100) * 255))
	}
	return fmt.Sprintf("#%s%02x", hex, alpha)
}
