package cards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardsynch/internal/platform/database"
	"cardsynch/internal/platform/shortlink"
)

var (
	ErrNotFound  = errors.New("card not found")
	ErrForbidden = errors.New("not the card owner")

	// ErrSlugUnavailable means every probed slug was taken by concurrent
	// creates before the insert landed; callers treat it as a conflict.
	ErrSlugUnavailable = errors.New("could not allocate a unique slug")
)

// createRetries bounds how often a create re-probes after losing a slug race
// to a concurrent insert.
const createRetries = 3

type Service struct {
	repo       *Repository
	shortener  shortlink.Client
	cardDomain string
}

func NewService(repo *Repository, shortener shortlink.Client, cardDomain string) *Service {
	return &Service{repo: repo, shortener: shortener, cardDomain: cardDomain}
}

// CreateCard allocates a unique slug from the profile name, merges theme and
// settings over the defaults, enriches URL links with short URLs
// best-effort, and persists the card with zeroed counters.
func (s *Service) CreateCard(ctx context.Context, ownerID string, input *CreateInput) (*Card, error) {
	base := Slugify(input.Profile.FirstName+" "+input.Profile.LastName, SlugMaxLen)
	if base == "" {
		base = "card"
	}

	mode := input.Mode
	if mode == "" {
		mode = ModeBusiness
	}

	theme := DefaultTheme()
	input.Theme.apply(&theme)
	settings := DefaultSettings()
	input.Settings.apply(&settings)

	links := make(Links, len(input.Links))
	copy(links, input.Links)
	for i := range links {
		if links[i].ID == "" {
			links[i].ID = uuid.New().String()
		}
	}

	var created *Card
	for attempt := 0; attempt <= createRetries; attempt++ {
		slug, err := GenerateSlug(base, s.repo)
		if err != nil {
			return nil, err
		}

		s.enrichLinks(ctx, slug, links, nil)

		now := time.Now().Unix()
		card := &Card{
			ID:        "card_" + uuid.NewString(),
			UserID:    ownerID,
			Slug:      slug,
			Mode:      mode,
			Status:    StatusActive,
			Profile:   input.Profile,
			Links:     links,
			Theme:     theme,
			Settings:  settings,
			Analytics: Counters{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if short := s.shortenCardPage(ctx, slug); short != nil {
			card.ShortURL = short.ShortURL
			card.ShortLinkID = short.ID
		}

		err = s.repo.Create(card)
		if err == nil {
			created = card
			break
		}
		// A concurrent create can win the same slug; the unique index turns
		// that into a constraint failure and we re-probe.
		if !database.IsUniqueViolation(err) {
			return nil, err
		}
		log.Warn().Str("slug", slug).Msg("slug taken by concurrent create, re-probing")
	}
	if created == nil {
		return nil, ErrSlugUnavailable
	}

	return created, nil
}

func (s *Service) GetOwned(ownerID string) ([]*Card, error) {
	return s.repo.ListActiveByOwner(ownerID)
}

// GetOwnedByID fetches a card and enforces ownership. Existence is
// acknowledged to non-owners (Forbidden, not NotFound): the card id is not a
// secret, access is.
func (s *Service) GetOwnedByID(cardID, requesterID string) (*Card, error) {
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrNotFound
	}
	if card.UserID != requesterID {
		return nil, ErrForbidden
	}
	return card, nil
}

// UpdateOwned applies a field-level partial merge: nested objects overwrite
// only the keys the caller provided, while links replace the stored list as
// a set. New link entries (no id, or an id the card does not have) get ids
// and best-effort short URLs.
func (s *Service) UpdateOwned(ctx context.Context, cardID, requesterID string, input *UpdateInput) (*Card, error) {
	card, err := s.GetOwnedByID(cardID, requesterID)
	if err != nil {
		return nil, err
	}

	input.Profile.apply(&card.Profile)
	input.Theme.apply(&card.Theme)
	input.Settings.apply(&card.Settings)
	if input.Mode != nil {
		card.Mode = *input.Mode
	}

	card.UpdatedAt = time.Now().Unix()

	if input.Links != nil {
		existing := make(map[string]bool, len(card.Links))
		for _, l := range card.Links {
			existing[l.ID] = true
		}

		replacement := make(Links, len(*input.Links))
		copy(replacement, *input.Links)
		var fresh []int
		for i := range replacement {
			if replacement[i].ID == "" || !existing[replacement[i].ID] {
				if replacement[i].ID == "" {
					replacement[i].ID = uuid.New().String()
				}
				fresh = append(fresh, i)
			}
		}
		s.enrichLinks(ctx, card.Slug, replacement, fresh)
		card.Links = replacement
	}

	if err := s.repo.Update(card); err != nil {
		return nil, err
	}
	return card, nil
}

// ArchiveOwned is the ownership-checked soft delete.
func (s *Service) ArchiveOwned(cardID, requesterID string) error {
	if _, err := s.GetOwnedByID(cardID, requesterID); err != nil {
		return err
	}
	return s.repo.Archive(cardID)
}

// PublicBySlug is the visitor read path: view counter bumped as part of the
// lookup, projection stripped of owner-only fields.
func (s *Service) PublicBySlug(slug string) (*PublicCard, error) {
	card, err := s.repo.GetPublicBySlug(slug)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrNotFound
	}
	return Project(card), nil
}

func (s *Service) CardURL(slug string) string {
	return fmt.Sprintf("https://%s/c/%s", s.cardDomain, slug)
}

// enrichLinks fills in short URLs for URL-type links. When only is non-nil,
// just those indexes are considered (update path: existing links keep their
// short URLs). Failure means no short link, never an error to the caller.
func (s *Service) enrichLinks(ctx context.Context, slug string, links Links, only []int) {
	indexes := only
	if indexes == nil {
		indexes = make([]int, len(links))
		for i := range links {
			indexes[i] = i
		}
	}

	for _, i := range indexes {
		l := &links[i]
		if l.ShortURL != "" || !wantsShortLink(l) {
			continue
		}
		short, err := s.shortener.CreateShortLink(ctx, l.Value, shortlink.Campaign{
			Source:   "cardsynch",
			Medium:   "card",
			Campaign: slug,
		})
		if err != nil {
			log.Debug().Err(err).Str("slug", slug).Str("link_type", l.Type).Msg("short link not produced")
			continue
		}
		if short != nil {
			l.ShortURL = short.ShortURL
			l.ShortLinkID = short.ID
		}
	}
}

func (s *Service) shortenCardPage(ctx context.Context, slug string) *shortlink.ShortLink {
	short, err := s.shortener.CreateShortLink(ctx, s.CardURL(slug), shortlink.Campaign{
		Source:   "cardsynch",
		Medium:   "card_page",
		Campaign: slug,
	})
	if err != nil {
		log.Debug().Err(err).Str("slug", slug).Msg("card page short link not produced")
		return nil
	}
	return short
}

func wantsShortLink(l *Link) bool {
	if l.Type == "email" || l.Type == "phone" {
		return false
	}
	return strings.HasPrefix(l.Value, "http://") || strings.HasPrefix(l.Value, "https://")
}
