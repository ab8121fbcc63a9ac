package handlers

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/engine/analytics"
	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/models"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	overview, err := h.svc.GetOwnerOverview(user.ID, days)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load analytics", nil)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *AnalyticsHandler) GetCardSummary(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	summary, err := h.svc.GetCardSummary(params.ByName("card_id"), user.ID)
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
