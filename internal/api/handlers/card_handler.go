package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	apiContext "cardsynch/internal/api/context"
	"cardsynch/internal/engine/cards"
	"cardsynch/internal/pkg/errors"
	"cardsynch/internal/platform/models"
)

type CardHandler struct {
	cardSvc *cards.Service
}

func NewCardHandler(cardSvc *cards.Service) *CardHandler {
	return &CardHandler{cardSvc: cardSvc}
}

func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)

	var input cards.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := cards.ValidateCreate(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	card, err := h.cardSvc.CreateCard(r.Context(), user.ID, &input)
	if err != nil {
		if err == cards.ErrSlugUnavailable {
			errors.WriteError(w, http.StatusConflict, errors.ErrCodeConflict, "Could not allocate a unique slug", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to create card", nil)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)

	cardList, err := h.cardSvc.GetOwned(user.ID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list cards", nil)
		return
	}

	writeJSON(w, http.StatusOK, cardList)
}

func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	card, err := h.cardSvc.GetOwnedByID(params.ByName("card_id"), user.ID)
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	var input cards.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := cards.ValidateUpdate(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	card, err := h.cardSvc.UpdateOwned(r.Context(), params.ByName("card_id"), user.ID, &input)
	if err != nil {
		writeCardError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *CardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	if err := h.cardSvc.ArchiveOwned(params.ByName("card_id"), user.ID); err != nil {
		writeCardError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetQRCode renders the card page URL as a PNG. Size comes from the query
// string; zero means the generator's default.
func (h *CardHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(apiContext.User).(*models.User)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)

	card, err := h.cardSvc.GetOwnedByID(params.ByName("card_id"), user.ID)
	if err != nil {
		writeCardError(w, err)
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	png, err := cards.GenerateQRCode(h.cardSvc.CardURL(card.Slug), size)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate QR code", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func writeCardError(w http.ResponseWriter, err error) {
	switch err {
	case cards.ErrNotFound:
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeCardNotFound, "Card not found", nil)
	case cards.ErrForbidden:
		errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, "You do not own this card", nil)
	default:
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Something went wrong", nil)
	}
}
