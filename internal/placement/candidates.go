package placement

// Direction identifies one of the eight candidate positions around an anchor.
type Direction string

const (
	DirectionTop         Direction = "top"
	DirectionBottom      Direction = "bottom"
	DirectionLeft        Direction = "left"
	DirectionRight       Direction = "right"
	DirectionTopLeft     Direction = "topLeft"
	DirectionTopRight    Direction = "topRight"
	DirectionBottomLeft  Direction = "bottomLeft"
	DirectionBottomRight Direction = "bottomRight"
)

// Direction priorities. Top and bottom keep the connector short and
// vertically unambiguous, so they win over the sides, which win over the
// diagonals. Policy constants, not tunables.
const (
	priorityVertical = 10
	prioritySide     = 5
	priorityDiagonal = 3
)

// Candidate is one possible box position for an annotation.
type Candidate struct {
	Direction Direction
	X         float64
	Y         float64
	Priority  float64
}

// candidatesFor generates the eight fixed candidate boxes around an anchor
// point, each offset by margin pixels along its direction. The slice order
// is the tie-break order used during selection.
func candidatesFor(ax, ay, w, h, margin float64) []Candidate {
	return []Candidate{
		{DirectionTop, ax - w/2, ay - margin - h, priorityVertical},
		{DirectionBottom, ax - w/2, ay + margin, priorityVertical},
		{DirectionLeft, ax - margin - w, ay - h/2, prioritySide},
		{DirectionRight, ax + margin, ay - h/2, prioritySide},
		{DirectionTopLeft, ax - margin - w, ay - margin - h, priorityDiagonal},
		{DirectionTopRight, ax + margin, ay - margin - h, priorityDiagonal},
		{DirectionBottomLeft, ax - margin - w, ay + margin, priorityDiagonal},
		{DirectionBottomRight, ax + margin, ay + margin, priorityDiagonal},
	}
}
