package placement

// Viewport is an immutable snapshot of the chart's scale parameters: the
// visible time range and the price range mapped onto a pixel pane. It is
// produced by an adapter over whatever charting surface is in use, so the
// placement logic never touches a rendering framework directly.
//
// Nil range bounds mean the scale is not yet established. Every conversion
// reports success explicitly; callers must treat a failed conversion as a
// hard stop, never coerce it to zero.
type Viewport struct {
	VisibleFrom *int64
	VisibleTo   *int64
	PriceMin    float64
	PriceMax    float64
	Width       float64
	Height      float64
}

// NewViewport builds a viewport with both time bounds set.
func NewViewport(from, to int64, priceMin, priceMax, width, height float64) Viewport {
	return Viewport{
		VisibleFrom: &from,
		VisibleTo:   &to,
		PriceMin:    priceMin,
		PriceMax:    priceMax,
		Width:       width,
		Height:      height,
	}
}

// Ready reports whether the scales are established enough to convert.
func (v Viewport) Ready() bool {
	if v.VisibleFrom == nil || v.VisibleTo == nil {
		return false
	}
	if *v.VisibleTo <= *v.VisibleFrom {
		return false
	}
	return v.PriceMax > v.PriceMin && v.Width > 0 && v.Height > 0
}

// IsVisible reports whether a timestamp falls inside the visible range,
// bounds inclusive. A viewport without an established range is never
// visible: nothing is drawn rather than drawn at a wrong position.
func (v Viewport) IsVisible(timestamp int64) bool {
	if v.VisibleFrom == nil || v.VisibleTo == nil {
		return false
	}
	return timestamp >= *v.VisibleFrom && timestamp <= *v.VisibleTo
}

// TimeToX converts a timestamp to a pane x coordinate. Conversion fails
// when the scale is not ready or the timestamp is outside the visible range.
func (v Viewport) TimeToX(timestamp int64) (float64, bool) {
	if !v.Ready() || !v.IsVisible(timestamp) {
		return 0, false
	}
	from, to := *v.VisibleFrom, *v.VisibleTo
	return float64(timestamp-from) / float64(to-from) * v.Width, true
}

// PriceToY converts a price to a pane y coordinate (y grows downward).
// Conversion fails when the scale is not ready or the price is outside the
// mapped range.
func (v Viewport) PriceToY(price float64) (float64, bool) {
	if !v.Ready() || price < v.PriceMin || price > v.PriceMax {
		return 0, false
	}
	return (v.PriceMax - price) / (v.PriceMax - v.PriceMin) * v.Height, true
}

// XToTime inverts TimeToX. The inverse extrapolates linearly past the pane
// edges so collision rectangles that poke outside still map to a time range;
// it only fails when the scale is not ready.
func (v Viewport) XToTime(x float64) (int64, bool) {
	if !v.Ready() {
		return 0, false
	}
	from, to := *v.VisibleFrom, *v.VisibleTo
	return from + int64(x/v.Width*float64(to-from)), true
}

// YToPrice inverts PriceToY, extrapolating past the pane edges.
func (v Viewport) YToPrice(y float64) (float64, bool) {
	if !v.Ready() {
		return 0, false
	}
	return v.PriceMax - y/v.Height*(v.PriceMax-v.PriceMin), true
}
