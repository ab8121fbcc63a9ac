package cards

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProject(t *testing.T) {
	card := testCard("card1", "user1", "ada-lovelace")
	card.OrgID = "org1"
	card.Analytics = Counters{TotalViews: 42, TotalClicks: 7, TotalCaptures: 3}
	card.Links = Links{
		{ID: "l1", Type: "website", Label: "Site", Value: "https://example.com", Visible: true, Order: 0},
		{ID: "l2", Type: "linkedin", Label: "Hidden", Value: "https://linkedin.com/in/ada", Visible: false, Order: 1},
		{ID: "l3", Type: "email", Label: "Mail", Value: "ada@example.com", Visible: true, Order: 2},
	}

	public := Project(card)

	if len(public.Links) != 2 {
		t.Fatalf("Expected 2 visible links, got %d", len(public.Links))
	}
	if public.Links[0].ID != "l1" || public.Links[1].ID != "l3" {
		t.Errorf("Stored order not preserved: %+v", public.Links)
	}

	if public.Settings.LeadCaptureEnabled != card.Settings.LeadCaptureEnabled {
		t.Error("Settings subset not copied")
	}
}

// The projection is serialized straight to visitors, so the wire form must
// not leak ownership or analytics fields.
func TestProjectOmitsPrivateFields(t *testing.T) {
	card := testCard("card1", "user1", "ada-lovelace")
	card.OrgID = "org1"
	card.ShortLinkID = "sl_9"
	card.Analytics = Counters{TotalViews: 42}

	raw, err := json.Marshal(Project(card))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	body := string(raw)
	for _, leaked := range []string{"user1", "org1", "sl_9", "total_views", "42"} {
		if strings.Contains(body, leaked) {
			t.Errorf("Projection leaked %q: %s", leaked, body)
		}
	}
}
