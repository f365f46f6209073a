package placement

import (
	"testing"

	"github.com/turnDeep/chartnote/internal/core"
)

func TestBoxOverlaps(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 100, Height: 50}

	if !a.overlaps(Box{X: 50, Y: 25, Width: 100, Height: 50}) {
		t.Error("expected overlap")
	}
	if a.overlaps(Box{X: 101, Y: 0, Width: 10, Height: 10}) {
		t.Error("disjoint on x, expected no overlap")
	}
	if a.overlaps(Box{X: 0, Y: 51, Width: 10, Height: 10}) {
		t.Error("disjoint on y, expected no overlap")
	}
}

func TestCollidesWithPlaced_ExcludesOwner(t *testing.T) {
	placed := map[string]Box{
		"1": {OwnerID: "1", X: 0, Y: 0, Width: 100, Height: 50},
	}

	self := Box{OwnerID: "1", X: 10, Y: 10, Width: 100, Height: 50}
	if collidesWithPlaced(self, placed, "1") {
		t.Error("a box must not collide with its own previous position")
	}
	if !collidesWithPlaced(self, placed, "2") {
		t.Error("expected collision against another owner's box")
	}
}

func TestCollidesWithCandle(t *testing.T) {
	// 100s x 100 price units mapped onto a 100x100 pane; y grows downward.
	vp := NewViewport(0, 100, 0, 100, 100, 100)
	candles := []core.Candle{
		{Time: 50, Open: 40, High: 60, Low: 30, Close: 55},
	}

	// Box spanning prices 10..25 under the candle extent [30, 60]: clear.
	clear := Box{X: 40, Y: 75, Width: 20, Height: 15}
	if collidesWithCandle(clear, candles, vp) {
		t.Error("box below the candle extent must not collide")
	}

	// Box spanning prices 45..55: inside the extent.
	hit := Box{X: 40, Y: 45, Width: 20, Height: 10}
	if !collidesWithCandle(hit, candles, vp) {
		t.Error("box inside the candle extent must collide")
	}

	// Box over a time range with no candle in it.
	elsewhere := Box{X: 60, Y: 45, Width: 20, Height: 10}
	if collidesWithCandle(elsewhere, candles, vp) {
		t.Error("box clear of the candle's time must not collide")
	}
}

func TestCollidesWithCandle_BodyBeyondWick(t *testing.T) {
	vp := NewViewport(0, 100, 0, 100, 100, 100)

	// Open below the low: the extent is [min(low, open, close), ...], so a
	// box around price 22 must still collide.
	candles := []core.Candle{
		{Time: 50, Open: 20, High: 60, Low: 30, Close: 55},
	}

	box := Box{X: 40, Y: 75, Width: 20, Height: 6} // prices 19..25
	if !collidesWithCandle(box, candles, vp) {
		t.Error("candle extent must include open and close, not just the wick")
	}
}
