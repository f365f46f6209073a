package placement

import (
	"math"

	"github.com/turnDeep/chartnote/internal/core"
)

// Box is an axis-aligned rectangle in pane pixels, keyed by the annotation
// that owns it. At most one box exists per owner at any time.
type Box struct {
	OwnerID string
	X       float64
	Y       float64
	Width   float64
	Height  float64
}

// overlaps is the standard 2-D AABB overlap test.
func (b Box) overlaps(o Box) bool {
	return !(b.X+b.Width < o.X || b.X > o.X+o.Width ||
		b.Y+b.Height < o.Y || b.Y > o.Y+o.Height)
}

// collidesWithPlaced tests b against every recorded box except the one
// owned by the annotation being placed.
func collidesWithPlaced(b Box, placed map[string]Box, exclude string) bool {
	for owner, other := range placed {
		if owner == exclude {
			continue
		}
		if b.overlaps(other) {
			return true
		}
	}
	return false
}

// collidesWithCandle tests whether b would cover any candle body or wick.
// The box edges are inverted to a time range and a price range; every candle
// inside the time range is checked for 1-D price overlap against the box,
// short-circuiting on the first hit. The candle's vertical extent includes
// open and close so that bars with wicks shorter than their bodies are still
// honored.
func collidesWithCandle(b Box, candles []core.Candle, vp Viewport) bool {
	tMin, ok1 := vp.XToTime(b.X)
	tMax, ok2 := vp.XToTime(b.X + b.Width)
	pTop, ok3 := vp.YToPrice(b.Y)
	pBot, ok4 := vp.YToPrice(b.Y + b.Height)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		// Scale not established; placement is suppressed upstream before
		// collision testing, so nothing to test against here.
		return false
	}

	boxMax := math.Max(pTop, pBot)
	boxMin := math.Min(pTop, pBot)

	for _, c := range candles {
		if c.Time < tMin || c.Time > tMax {
			continue
		}
		lo := math.Min(c.Low, math.Min(c.Open, c.Close))
		hi := math.Max(c.High, math.Max(c.Open, c.Close))
		if boxMax < lo || boxMin > hi {
			continue
		}
		return true
	}
	return false
}
