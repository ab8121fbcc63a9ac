package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/engine/leads"
	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/models"
)

type ContactHandler struct {
	leadSvc *leads.Service
}

func NewContactHandler(leadSvc *leads.Service) *ContactHandler {
	return &ContactHandler{leadSvc: leadSvc}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	filter := leads.Filter{
		CardID: r.URL.Query().Get("card_id"),
		Status: r.URL.Query().Get("status"),
	}
	if filter.Status != "" && !leads.ValidStatus(filter.Status) {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid status filter", nil)
		return
	}

	list, total, err := h.leadSvc.ListOwned(user.ID, filter, page, limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list contacts", nil)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Contacts []*leads.Lead `json:"contacts"`
		Total    int           `json:"total"`
		Page     int           `json:"page"`
		Limit    int           `json:"limit"`
	}{Contacts: list, Total: total, Page: page, Limit: limit})
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var req struct {
		Status *string   `json:"status"`
		Tags   *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	lead, err := h.leadSvc.UpdateOwned(params.ByName("contact_id"), user.ID, req.Status, req.Tags)
	if err != nil {
		switch err {
		case leads.ErrLeadNotFound:
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeContactNotFound, "Contact not found", nil)
		case leads.ErrForbidden:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You do not own this contact", nil)
		default:
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, lead)
}
