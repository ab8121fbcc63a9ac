package handlers

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/engine/cards"
	"cardsynch/internal/engine/leads"
	"cardsynch/internal/engine/scans"
	"cardsynch/internal/pkg/errors"
)

// PublicHandler serves the unauthenticated visitor surface: the card page
// payload, scan events and lead capture.
type PublicHandler struct {
	cardSvc  *cards.Service
	cardRepo *cards.Repository
	recorder *scans.Recorder
	leadSvc  *leads.Service
}

func NewPublicHandler(cardSvc *cards.Service, cardRepo *cards.Repository, recorder *scans.Recorder, leadSvc *leads.Service) *PublicHandler {
	return &PublicHandler{cardSvc: cardSvc, cardRepo: cardRepo, recorder: recorder, leadSvc: leadSvc}
}

// GetCard returns the public projection. The lookup itself counts as a view;
// archived and unknown slugs are indistinguishable.
func (h *PublicHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	card, err := h.cardSvc.PublicBySlug(params.ByName("slug"))
	if err != nil {
		if err == cards.ErrNotFound {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeCardNotFound, "Card not found", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Something went wrong", nil)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// RecordScan appends a visitor event against the card. The view bump for
// the page load happens in GetCard; this endpoint covers the explicit
// events the page fires (clicks, saves, shares and off-page views).
func (h *PublicHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var req struct {
		EventType string `json:"event_type"`
		LinkID    string `json:"link_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if !scans.ValidEventType(req.EventType) {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid event type", nil)
		return
	}

	card, err := h.cardRepo.GetActiveBySlug(params.ByName("slug"))
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Something went wrong", nil)
		return
	}
	if card == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeCardNotFound, "Card not found", nil)
		return
	}

	scan, err := h.recorder.Record(card.ID, req.EventType, req.LinkID, scans.Metadata{
		IP:        requestIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	})
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to record event", nil)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": scan.ID})
}

// CaptureLead takes a visitor's contact form submission for the card.
func (h *PublicHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var submission leads.Submission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if err := leads.ValidateSubmission(&submission); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	lead, err := h.leadSvc.Capture(params.ByName("slug"), &submission, leads.Source{
		Referrer:  r.Referer(),
		IP:        requestIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		switch err {
		case leads.ErrCardNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeCardNotFound, "Card not found", nil)
		case leads.ErrCaptureDisabled:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeLeadCaptureDisabled, "Lead capture is not enabled for this card", nil)
		default:
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to capture lead", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": lead.ID, "status": lead.Status})
}

func requestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
