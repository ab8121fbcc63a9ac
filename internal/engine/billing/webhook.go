package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"cardsynch/internal/platform/models"
	"cardsynch/internal/platform/repositories"
)

// Subscription event types delivered by the billing provider.
const (
	EventInitialPurchase = "INITIAL_PURCHASE"
	EventRenewal         = "RENEWAL"
	EventProductChange   = "PRODUCT_CHANGE"
	EventCancellation    = "CANCELLATION"
	EventExpiration      = "EXPIRATION"
	EventBillingIssue    = "BILLING_ISSUE"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// entitlementPlans maps provider entitlement identifiers to plans. Unknown
// entitlements are ignored rather than rejected.
var entitlementPlans = map[string]string{
	"cardsynch_pro":  models.PlanPro,
	"cardsynch_team": models.PlanTeam,
}

var planRank = map[string]int{
	models.PlanFree: 0,
	models.PlanPro:  1,
	models.PlanTeam: 2,
}

type Event struct {
	Type           string   `json:"type"`
	AppUserID      string   `json:"app_user_id"`
	EntitlementIDs []string `json:"entitlement_ids,omitempty"`
	ExpirationAtMs *int64   `json:"expiration_at_ms,omitempty"`
}

type Payload struct {
	Event Event `json:"event"`
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the raw request
// body against the shared secret. Comparison is constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ResolvePlan picks the highest-tier plan granted by the entitlement list.
// An empty or unrecognized list resolves to free.
func ResolvePlan(entitlementIDs []string) string {
	plan := models.PlanFree
	for _, id := range entitlementIDs {
		candidate, ok := entitlementPlans[id]
		if !ok {
			continue
		}
		if planRank[candidate] > planRank[plan] {
			plan = candidate
		}
	}
	return plan
}

type Processor struct {
	users  *repositories.UserRepository
	secret string
}

func NewProcessor(users *repositories.UserRepository, secret string) *Processor {
	return &Processor{users: users, secret: secret}
}

// Process verifies and applies one webhook delivery. Events for unknown
// users and event types outside the handled set are acknowledged without
// effect so the provider does not retry them.
func (p *Processor) Process(body []byte, signature string) error {
	if !VerifySignature(body, signature, p.secret) {
		return ErrInvalidSignature
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	event := payload.Event
	user, err := p.users.GetBySubject(event.AppUserID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		log.Warn().
			Str("event_type", event.Type).
			Str("app_user_id", event.AppUserID).
			Msg("Billing event for unknown user, ignoring")
		return nil
	}

	switch event.Type {
	case EventInitialPurchase, EventRenewal, EventProductChange:
		plan := ResolvePlan(event.EntitlementIDs)
		if err := p.users.UpdatePlan(user.ID, plan, event.ExpirationAtMs); err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		log.Info().
			Str("user_id", user.ID).
			Str("plan", plan).
			Str("event_type", event.Type).
			Msg("Plan updated from billing event")
	case EventCancellation, EventExpiration:
		if err := p.users.UpdatePlan(user.ID, models.PlanFree, nil); err != nil {
			return fmt.Errorf("failed to downgrade plan: %w", err)
		}
		log.Info().
			Str("user_id", user.ID).
			Str("event_type", event.Type).
			Msg("Plan downgraded from billing event")
	default:
		log.Debug().
			Str("event_type", event.Type).
			Str("user_id", user.ID).
			Msg("Unhandled billing event type, acknowledging")
	}

	return nil
}
