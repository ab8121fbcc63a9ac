package analytics

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"cardsynch/internal/engine/cards"
	"cardsynch/internal/platform/shortlink"
)

func setupServiceDB(t *testing.T) *sql.DB {
	db := setupTestDB(t)

	query := `
	CREATE TABLE cards (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		org_id TEXT NOT NULL DEFAULT '',
		slug TEXT NOT NULL UNIQUE,
		mode TEXT NOT NULL DEFAULT 'business',
		status TEXT NOT NULL DEFAULT 'active',
		profile TEXT NOT NULL DEFAULT '{}',
		links TEXT NOT NULL DEFAULT '[]',
		theme TEXT NOT NULL DEFAULT '{}',
		settings TEXT NOT NULL DEFAULT '{}',
		short_url TEXT NOT NULL DEFAULT '',
		short_link_id TEXT NOT NULL DEFAULT '',
		total_views INTEGER NOT NULL DEFAULT 0,
		total_clicks INTEGER NOT NULL DEFAULT 0,
		total_captures INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create cards table: %v", err)
	}
	return db
}

func newServiceFixture(t *testing.T) (*Service, *cards.Service, *sql.DB) {
	db := setupServiceDB(t)
	t.Cleanup(func() { db.Close() })

	cardSvc := cards.NewService(cards.NewRepository(db), &shortlink.NoopClient{}, "cardsynch.app")
	return NewService(NewRepository(db), cardSvc), cardSvc, db
}

func createCard(t *testing.T, cardSvc *cards.Service, owner, first, last string) *cards.Card {
	card, err := cardSvc.CreateCard(context.Background(), owner, &cards.CreateInput{
		Profile: cards.Profile{FirstName: first, LastName: last},
	})
	if err != nil {
		t.Fatalf("Failed to create card: %v", err)
	}
	return card
}

func TestGetCardSummary(t *testing.T) {
	svc, cardSvc, db := newServiceFixture(t)

	card := createCard(t, cardSvc, "user1", "Ada", "Lovelace")

	now := time.Now().UnixMilli()
	seedScan(t, db, card.ID, "view", "", "https://linkedin.com", "mobile", now)
	seedScan(t, db, card.ID, "click", "l1", "", "desktop", now)
	if _, err := db.Exec(`UPDATE cards SET total_views = 10, total_clicks = 4, total_captures = 1 WHERE id = ?`, card.ID); err != nil {
		t.Fatalf("Failed to set counters: %v", err)
	}

	summary, err := svc.GetCardSummary(card.ID, "user1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Totals come from the card counters, not the scan rows
	if summary.Totals.Views != 10 || summary.Totals.Clicks != 4 || summary.Totals.Captures != 1 {
		t.Errorf("Unexpected totals: %+v", summary.Totals)
	}
	if len(summary.ViewsByDay) != 1 || summary.ViewsByDay[0].Count != 1 {
		t.Errorf("Unexpected series: %+v", summary.ViewsByDay)
	}
	if len(summary.TopLinks) != 1 || summary.TopLinks[0].LinkID != "l1" {
		t.Errorf("Unexpected top links: %+v", summary.TopLinks)
	}
	if len(summary.TopReferrers) != 1 || summary.TopReferrers[0].Referrer != "https://linkedin.com" {
		t.Errorf("Unexpected referrers: %+v", summary.TopReferrers)
	}

	// Ownership is enforced through the card service
	if _, err := svc.GetCardSummary(card.ID, "user2"); err != cards.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetCardSummary("card_missing", "user1"); err != cards.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetOwnerOverview(t *testing.T) {
	svc, cardSvc, db := newServiceFixture(t)

	first := createCard(t, cardSvc, "user1", "Ada", "Lovelace")
	second := createCard(t, cardSvc, "user1", "Grace", "Hopper")
	other := createCard(t, cardSvc, "user2", "Alan", "Turing")

	if _, err := db.Exec(`UPDATE cards SET total_views = 5, total_clicks = 2 WHERE id = ?`, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`UPDATE cards SET total_views = 9, total_captures = 3 WHERE id = ?`, second.ID); err != nil {
		t.Fatal(err)
	}

	now := time.Now().UnixMilli()
	seedScan(t, db, first.ID, "view", "", "", "", now)
	seedScan(t, db, second.ID, "view", "", "", "", now)
	seedScan(t, db, first.ID, "share", "", "", "", now)
	seedScan(t, db, other.ID, "share", "", "", "", now)

	overview, err := svc.GetOwnerOverview("user1", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if overview.Views != 14 || overview.Clicks != 2 || overview.Captures != 3 {
		t.Errorf("Unexpected totals: %+v", overview)
	}
	if overview.Shares != 1 {
		t.Errorf("Expected 1 share, got %d", overview.Shares)
	}
	if len(overview.ViewsByDay) != 1 || overview.ViewsByDay[0].Count != 2 {
		t.Errorf("Unexpected series: %+v", overview.ViewsByDay)
	}

	if len(overview.TopCards) != 2 {
		t.Fatalf("Expected 2 ranked cards, got %d", len(overview.TopCards))
	}
	if overview.TopCards[0].CardID != second.ID || overview.TopCards[0].Views != 9 {
		t.Errorf("Unexpected top card: %+v", overview.TopCards[0])
	}
	if overview.TopCards[0].CardName != "Grace Hopper" {
		t.Errorf("Unexpected card name: %s", overview.TopCards[0].CardName)
	}
}

func TestGetOwnerOverviewNoCards(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	overview, err := svc.GetOwnerOverview("nobody", 30)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if overview.Views != 0 || overview.Shares != 0 || len(overview.TopCards) != 0 {
		t.Errorf("Expected empty overview, got %+v", overview)
	}
}
