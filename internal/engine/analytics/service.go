package analytics

import (
	"sort"
	"time"

	"cardsynch/internal/engine/cards"
)

const (
	defaultWindowDays = 30
	topLinkCount      = 10
	topReferrerCount  = 10
	topCardCount      = 5
)

type Totals struct {
	Views    int `json:"views"`
	Clicks   int `json:"clicks"`
	Captures int `json:"captures"`
}

// CardSummary is the owner-only per-card dashboard payload. Totals come from
// the card's stored counters; the series and breakdowns are derived from
// scans.
type CardSummary struct {
	Totals          Totals          `json:"totals"`
	ViewsByDay      []DayCount      `json:"views_by_day"`
	TopLinks        []LinkCount     `json:"top_links"`
	TopReferrers    []ReferrerCount `json:"top_referrers"`
	DeviceBreakdown []DeviceCount   `json:"device_breakdown"`
}

type CardRank struct {
	CardID   string `json:"card_id"`
	CardName string `json:"card_name"`
	Views    int    `json:"views"`
}

// OwnerOverview aggregates across all of an owner's active cards. Shares are
// counted from scans within the window; the other totals are all-time sums
// of stored counters. The asymmetry is intentional.
type OwnerOverview struct {
	Views      int        `json:"views"`
	Clicks     int        `json:"clicks"`
	Captures   int        `json:"captures"`
	Shares     int        `json:"shares"`
	ViewsByDay []DayCount `json:"views_by_day"`
	TopCards   []CardRank `json:"top_cards"`
}

type Service struct {
	repo    *Repository
	cardSvc *cards.Service
}

func NewService(repo *Repository, cardSvc *cards.Service) *Service {
	return &Service{repo: repo, cardSvc: cardSvc}
}

// GetCardSummary is ownership-checked; non-owners get cards.ErrForbidden.
func (s *Service) GetCardSummary(cardID, requesterID string) (*CardSummary, error) {
	card, err := s.cardSvc.GetOwnedByID(cardID, requesterID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -defaultWindowDays).UnixMilli()

	viewsByDay, err := s.repo.ViewsByDay([]string{card.ID}, since)
	if err != nil {
		return nil, err
	}
	topLinks, err := s.repo.TopLinks(card.ID, topLinkCount)
	if err != nil {
		return nil, err
	}
	topReferrers, err := s.repo.TopReferrers(card.ID, topReferrerCount)
	if err != nil {
		return nil, err
	}
	devices, err := s.repo.DeviceBreakdown(card.ID)
	if err != nil {
		return nil, err
	}

	return &CardSummary{
		Totals: Totals{
			Views:    card.Analytics.TotalViews,
			Clicks:   card.Analytics.TotalClicks,
			Captures: card.Analytics.TotalCaptures,
		},
		ViewsByDay:      viewsByDay,
		TopLinks:        topLinks,
		TopReferrers:    topReferrers,
		DeviceBreakdown: devices,
	}, nil
}

// GetOwnerOverview aggregates the owner's active cards over the given
// window; windowDays <= 0 selects the 30-day default.
func (s *Service) GetOwnerOverview(ownerID string, windowDays int) (*OwnerOverview, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	ownerCards, err := s.cardSvc.GetOwned(ownerID)
	if err != nil {
		return nil, err
	}

	overview := &OwnerOverview{
		ViewsByDay: []DayCount{},
		TopCards:   []CardRank{},
	}
	if len(ownerCards) == 0 {
		return overview, nil
	}

	cardIDs := make([]string, len(ownerCards))
	ranks := make([]CardRank, len(ownerCards))
	for i, card := range ownerCards {
		cardIDs[i] = card.ID
		overview.Views += card.Analytics.TotalViews
		overview.Clicks += card.Analytics.TotalClicks
		overview.Captures += card.Analytics.TotalCaptures
		ranks[i] = CardRank{
			CardID:   card.ID,
			CardName: card.Profile.FirstName + " " + card.Profile.LastName,
			Views:    card.Analytics.TotalViews,
		}
	}

	since := time.Now().AddDate(0, 0, -windowDays).UnixMilli()

	overview.Shares, err = s.repo.CountShares(cardIDs, since)
	if err != nil {
		return nil, err
	}
	overview.ViewsByDay, err = s.repo.ViewsByDay(cardIDs, since)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].Views > ranks[j].Views })
	if len(ranks) > topCardCount {
		ranks = ranks[:topCardCount]
	}
	overview.TopCards = ranks

	return overview, nil
}
