package leads

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardsynch/internal/engine/cards"
	"cardsynch/internal/platform/email"
	"cardsynch/internal/platform/repositories"
)

var (
	ErrCardNotFound    = errors.New("card not found")
	ErrCaptureDisabled = errors.New("lead capture is not enabled for this card")
	ErrLeadNotFound    = errors.New("lead not found")
	ErrForbidden       = errors.New("not the lead owner")
)

// Submission is the visitor-supplied lead form payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
	Consent bool   `json:"consent"`
	Channel string `json:"channel"`
}

// Source is what the edge captured about the submitting request;
// opportunistic, any field may be empty.
type Source struct {
	Referrer  string
	IP        string
	UserAgent string
}

type Service struct {
	repo     *Repository
	cardRepo *cards.Repository
	userRepo *repositories.UserRepository
	sender   email.Sender
}

func NewService(repo *Repository, cardRepo *cards.Repository, userRepo *repositories.UserRepository, sender email.Sender) *Service {
	return &Service{repo: repo, cardRepo: cardRepo, userRepo: userRepo, sender: sender}
}

// Capture resolves the card, checks the per-card lead-capture flag as of
// submission time, validates the submission, persists the lead and bumps the
// captures counter. Duplicate submissions are not collapsed: every call
// creates a new row. The owner notification email is fire-and-forget.
func (s *Service) Capture(slug string, submission *Submission, source Source) (*Lead, error) {
	card, err := s.cardRepo.GetActiveBySlug(slug)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if !card.Settings.LeadCaptureEnabled {
		return nil, ErrCaptureDisabled
	}

	if err := ValidateSubmission(submission); err != nil {
		return nil, err
	}

	channel := submission.Channel
	if channel == "" {
		channel = ChannelLinkShare
	}

	now := time.Now().Unix()
	lead := &Lead{
		ID:          "lead_" + uuid.NewString(),
		CardID:      card.ID,
		CardOwnerID: card.UserID,
		Name:        submission.Name,
		Email:       submission.Email,
		Phone:       submission.Phone,
		Company:     submission.Company,
		Notes:       submission.Notes,
		Channel:     channel,
		Referrer:    source.Referrer,
		IP:          source.IP,
		UserAgent:   source.UserAgent,
		Consent:     submission.Consent,
		Status:      StatusNew,
		Tags:        Tags{},
		Synced:      false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(lead); err != nil {
		return nil, err
	}

	if err := s.cardRepo.IncrementCounter(card.ID, "captures"); err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("lead persisted but captures increment failed")
	}

	go s.notifyOwner(card, lead)

	return lead, nil
}

func (s *Service) ListOwned(ownerID string, filter Filter, page, limit int) ([]*Lead, int, error) {
	total, err := s.repo.CountByOwner(ownerID, filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.repo.ListByOwner(ownerID, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateOwned mutates workflow state (status/tags) after an ownership check.
// Nil means "leave unchanged".
func (s *Service) UpdateOwned(leadID, requesterID string, status *string, tags *[]string) (*Lead, error) {
	lead, err := s.repo.GetByID(leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	if lead.CardOwnerID != requesterID {
		return nil, ErrForbidden
	}

	if status != nil {
		if !ValidStatus(*status) {
			return nil, fmt.Errorf("status: %q is not a valid lead status", *status)
		}
		lead.Status = *status
	}
	if tags != nil {
		for _, tag := range *tags {
			if len(tag) > 50 {
				return nil, errors.New("tags: each tag must be at most 50 characters")
			}
		}
		lead.Tags = Tags(*tags)
	}

	if err := s.repo.UpdateWorkflow(lead.ID, lead.Status, lead.Tags); err != nil {
		return nil, err
	}
	return lead, nil
}

// ValidateSubmission enforces the lead form contract: name and a syntactic
// email are required, consent must be explicitly true, the optional fields
// have length caps, and the channel must be a known one when present.
func ValidateSubmission(sub *Submission) error {
	if sub.Name == "" || len(sub.Name) > 100 {
		return errors.New("name: must be 1-100 characters")
	}
	if sub.Email == "" || len(sub.Email) > 255 {
		return errors.New("email: must be 1-255 characters")
	}
	if _, err := mail.ParseAddress(sub.Email); err != nil {
		return errors.New("email: invalid email address")
	}
	if !sub.Consent {
		return errors.New("consent: consent is required")
	}
	if len(sub.Phone) > 20 {
		return errors.New("phone: must be at most 20 characters")
	}
	if len(sub.Company) > 100 {
		return errors.New("company: must be at most 100 characters")
	}
	if len(sub.Notes) > 1000 {
		return errors.New("notes: must be at most 1000 characters")
	}
	if sub.Channel != "" && !ValidChannel(sub.Channel) {
		return fmt.Errorf("channel: %q is not a valid channel", sub.Channel)
	}
	return nil
}

func (s *Service) notifyOwner(card *cards.Card, lead *Lead) {
	owner, err := s.userRepo.GetByID(card.UserID)
	if err != nil || owner == nil || owner.Email == "" {
		return
	}
	err = s.sender.SendLeadNotification(email.LeadNotification{
		To:        owner.Email,
		OwnerName: owner.DisplayName,
		CardSlug:  card.Slug,
		LeadName:  lead.Name,
		LeadEmail: lead.Email,
		Company:   lead.Company,
		Notes:     lead.Notes,
	})
	if err != nil {
		log.Error().Err(err).Str("card_id", card.ID).Msg("lead notification email failed")
	}
}
