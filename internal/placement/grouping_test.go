package placement

import (
	"testing"

	"github.com/turnDeep/chartnote/internal/core"
)

func TestGroupComments_Empty(t *testing.T) {
	groups := GroupComments(nil, 30)
	if len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestGroupComments_Partition(t *testing.T) {
	comments := []core.Comment{
		{ID: 1, Timestamp: 100, Price: 17000},
		{ID: 2, Timestamp: 110, Price: 17010},
		{ID: 3, Timestamp: 120, Price: 17100},
		{ID: 4, Timestamp: 130, Price: 17005},
	}

	groups := GroupComments(comments, 30)

	seen := make(map[int64]int)
	total := 0
	for _, g := range groups {
		if len(g.Comments) == 0 {
			t.Fatal("group must be non-empty")
		}
		for _, c := range g.Comments {
			seen[c.ID]++
			total++
		}
	}

	if total != len(comments) {
		t.Errorf("expected %d comments across groups, got %d", len(comments), total)
	}
	for _, c := range comments {
		if seen[c.ID] != 1 {
			t.Errorf("comment %d appears %d times, want exactly once", c.ID, seen[c.ID])
		}
	}
}

func TestGroupComments_OrderSensitive(t *testing.T) {
	// 120 joins the 100-group (diff 20 < 30) before 140 is considered;
	// 140 vs 100 fails (diff 40). Exactly two groups: {100, 120} and {140}.
	comments := []core.Comment{
		{ID: 1, Price: 100, Timestamp: 10},
		{ID: 2, Price: 140, Timestamp: 20},
		{ID: 3, Price: 120, Timestamp: 30},
	}

	groups := GroupComments(comments, 30)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	first := groups[0]
	if first.Anchor.Price != 100 || len(first.Comments) != 2 {
		t.Errorf("first group should anchor at 100 with 2 members, got anchor %.0f, %d members",
			first.Anchor.Price, len(first.Comments))
	}
	if first.Comments[0].ID != 1 || first.Comments[1].ID != 3 {
		t.Errorf("first group should hold comments 1 and 3 in insertion order, got %v", first.Comments)
	}

	second := groups[1]
	if second.Anchor.Price != 140 || len(second.Comments) != 1 {
		t.Errorf("second group should be a 140 singleton, got anchor %.0f, %d members",
			second.Anchor.Price, len(second.Comments))
	}
}

func TestGroupComments_RepresentativeIsFixed(t *testing.T) {
	// The representative price is the first member's, not a centroid:
	// 100 anchors, 125 joins (diff 25), then 145 must NOT join even though
	// it is within 30 of 125.
	comments := []core.Comment{
		{ID: 1, Price: 100},
		{ID: 2, Price: 125},
		{ID: 3, Price: 145},
	}

	groups := GroupComments(comments, 30)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[0].Comments) != 2 || groups[1].Comments[0].ID != 3 {
		t.Errorf("145 must not join via the drifted member: %+v", groups)
	}
}

func TestGroupOwnerID(t *testing.T) {
	withID := Group{Anchor: Anchor{Timestamp: 555}, Comments: []core.Comment{{ID: 42}}}
	if withID.OwnerID() != "42" {
		t.Errorf("expected owner 42, got %s", withID.OwnerID())
	}

	synthetic := Group{Anchor: Anchor{Timestamp: 555}, Comments: []core.Comment{{}}}
	if synthetic.OwnerID() != "group-555" {
		t.Errorf("expected synthetic owner key, got %s", synthetic.OwnerID())
	}
}
