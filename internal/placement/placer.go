package placement

import (
	"math"

	"github.com/turnDeep/chartnote/internal/core"
)

// Config holds the placement tunables. PriceThreshold is deliberately a
// setting rather than a constant: observed values range from 10 to 50 price
// units depending on how dense the comment stream is.
type Config struct {
	PriceThreshold float64
	Margin         float64 // gap between the anchor and the box, px
	ScreenMargin   float64 // minimum distance from the pane edges, px
	BoxHeight      float64 // single-comment box height, px
	GroupBoxWidth  float64 // fixed "+N" box width, px
	GroupBoxHeight float64 // fixed "+N" box height, px
}

// DefaultConfig returns the placement defaults.
func DefaultConfig() Config {
	return Config{
		PriceThreshold: 30,
		Margin:         20,
		ScreenMargin:   10,
		BoxHeight:      35,
		GroupBoxWidth:  80,
		GroupBoxHeight: 48,
	}
}

// Single-comment box width scales with the text: 8px per rune plus padding,
// clamped to a readable range.
const (
	boxWidthPerRune = 8
	boxWidthPadding = 40
	boxWidthMin     = 120
	boxWidthMax     = 250
)

// Result is a computed annotation position. Forced marks the deterministic
// fallback taken when every candidate collided; such a box may overlap and
// is reported distinctly so telemetry and tests can tell the two apart.
type Result struct {
	OwnerID   string    `json:"owner_id"`
	Direction Direction `json:"direction"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Forced    bool      `json:"forced"`
}

// Placer computes non-overlapping positions for annotation boxes over a
// viewport. It keeps the boxes placed during the current pass so later
// groups avoid earlier ones. Not safe for concurrent use; all placement
// runs on the event goroutine that owns it.
type Placer struct {
	cfg    Config
	placed map[string]Box
}

// NewPlacer creates a placer with the given configuration.
func NewPlacer(cfg Config) *Placer {
	return &Placer{
		cfg:    cfg,
		placed: make(map[string]Box),
	}
}

// Placed returns a copy of the currently recorded boxes.
func (p *Placer) Placed() map[string]Box {
	out := make(map[string]Box, len(p.placed))
	for k, v := range p.placed {
		out[k] = v
	}
	return out
}

// Reset discards all recorded boxes.
func (p *Placer) Reset() {
	p.placed = make(map[string]Box)
}

// Place computes a position for one group. A group whose anchor is outside
// the visible range, or whose anchor cannot be projected, is suppressed:
// the returned error is ErrNotVisible or ErrProjectionFailed and nothing is
// recorded. The group's own previous box is either fully replaced or left
// untouched, never half-written.
func (p *Placer) Place(g Group, vp Viewport, candles []core.Candle) (Result, error) {
	if !vp.IsVisible(g.Anchor.Timestamp) {
		return Result{}, core.ErrNotVisible
	}

	ax, okX := vp.TimeToX(g.Anchor.Timestamp)
	ay, okY := vp.PriceToY(g.Anchor.Price)
	if !okX || !okY {
		return Result{}, core.ErrProjectionFailed
	}

	w, h := p.boxSize(g)
	owner := g.OwnerID()

	best, found := p.selectCandidate(ax, ay, w, h, vp, candles, owner)
	res := Result{
		OwnerID:   owner,
		Width:     w,
		Height:    h,
		Direction: best.Direction,
		X:         best.X,
		Y:         best.Y,
	}

	if !found {
		// Every candidate collided or fell off-pane. A visible, projectable
		// anchor still gets a box: take top, clamped into the pane, and
		// accept possible overlap as a last resort.
		top := candidatesFor(ax, ay, w, h, p.cfg.Margin)[0]
		res.Direction = top.Direction
		res.X = clamp(top.X, p.cfg.ScreenMargin, vp.Width-p.cfg.ScreenMargin-w)
		res.Y = clamp(top.Y, p.cfg.ScreenMargin, vp.Height-p.cfg.ScreenMargin-h)
		res.Forced = true
	}

	p.placed[owner] = Box{OwnerID: owner, X: res.X, Y: res.Y, Width: w, Height: h}
	return res, nil
}

// PlaceAll recomputes every group's box from scratch, in group order. The
// placed-box map is rebuilt for the pass, so earlier groups' boxes are seen
// by later ones. Suppressed groups are omitted from the result.
func (p *Placer) PlaceAll(groups []Group, vp Viewport, candles []core.Candle) []Result {
	p.placed = make(map[string]Box, len(groups))

	results := make([]Result, 0, len(groups))
	for _, g := range groups {
		res, err := p.Place(g, vp, candles)
		if err != nil {
			continue
		}
		results = append(results, res)
	}
	return results
}

// selectCandidate filters the eight candidates down to those on-pane and
// collision-free, then scores the survivors. Scoring rewards the direction
// priority plus closeness to the anchor; ties keep the earlier candidate in
// the fixed generation order.
func (p *Placer) selectCandidate(ax, ay, w, h float64, vp Viewport, candles []core.Candle, owner string) (Candidate, bool) {
	var best Candidate
	bestScore := math.Inf(-1)
	found := false

	for _, cand := range candidatesFor(ax, ay, w, h, p.cfg.Margin) {
		sm := p.cfg.ScreenMargin
		if cand.X < sm || cand.Y < sm || cand.X+w > vp.Width-sm || cand.Y+h > vp.Height-sm {
			continue
		}

		box := Box{OwnerID: owner, X: cand.X, Y: cand.Y, Width: w, Height: h}
		if collidesWithCandle(box, candles, vp) {
			continue
		}
		if collidesWithPlaced(box, p.placed, owner) {
			continue
		}

		cx := cand.X + w/2
		cy := cand.Y + h/2
		dist := math.Hypot(cx-ax, cy-ay)
		score := cand.Priority + 100/(1+0.01*dist)

		if score > bestScore {
			best = cand
			bestScore = score
			found = true
		}
	}

	return best, found
}

// boxSize returns the box dimensions for a group: width scales with the
// longest comment for single-comment bubbles, grouped "+N" bubbles are a
// fixed size.
func (p *Placer) boxSize(g Group) (w, h float64) {
	if len(g.Comments) > 1 {
		return p.cfg.GroupBoxWidth, p.cfg.GroupBoxHeight
	}

	longest := 0
	for _, c := range g.Comments {
		if n := len([]rune(c.Content)); n > longest {
			longest = n
		}
	}
	return clamp(float64(longest*boxWidthPerRune+boxWidthPadding), boxWidthMin, boxWidthMax), p.cfg.BoxHeight
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
