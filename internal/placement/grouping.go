package placement

import (
	"fmt"

	"github.com/turnDeep/chartnote/internal/core"
)

// Anchor is the time/price point an annotation is tied to.
type Anchor struct {
	Timestamp int64
	Price     float64
}

// Group is a non-empty set of comments sharing one anchor. The anchor is
// the first member's time/price, fixed at group creation; it is not a
// running centroid.
type Group struct {
	Anchor   Anchor
	Comments []core.Comment
}

// OwnerID is the key a group's placed box is recorded under. The first
// comment's id when present, otherwise a synthetic key from the anchor time.
func (g Group) OwnerID() string {
	if len(g.Comments) > 0 && g.Comments[0].ID != 0 {
		return fmt.Sprintf("%d", g.Comments[0].ID)
	}
	return fmt.Sprintf("group-%d", g.Anchor.Timestamp)
}

// GroupComments clusters comments by price proximity. Each comment joins the
// first existing group whose anchor price is strictly within priceThreshold,
// else starts a new group. The scan is greedy and single-pass, so the result
// depends on input order; that is intentional, since arrival order is
// meaningful (the oldest comment anchors the group). Within a group, member
// order is insertion order.
func GroupComments(comments []core.Comment, priceThreshold float64) []Group {
	var groups []Group

	for _, c := range comments {
		joined := false
		for i := range groups {
			if abs(groups[i].Anchor.Price-c.Price) < priceThreshold {
				groups[i].Comments = append(groups[i].Comments, c)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, Group{
				Anchor:   Anchor{Timestamp: c.Timestamp, Price: c.Price},
				Comments: []core.Comment{c},
			})
		}
	}

	return groups
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
