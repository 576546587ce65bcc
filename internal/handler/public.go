package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/service"
)

// PublicHandler serves the anonymous, rate limited lookup routes.
type PublicHandler struct {
	lookupService *service.LookupService
	rateLimit     func(http.Handler) http.Handler
}

func NewPublicHandler(lookupService *service.LookupService, rateLimit func(http.Handler) http.Handler) *PublicHandler {
	return &PublicHandler{
		lookupService: lookupService,
		rateLimit:     rateLimit,
	}
}

func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if h.rateLimit != nil {
			r.Use(h.rateLimit)
		}
		r.Get("/check/{sn}", h.CheckOne)
		r.Post("/check-bulk", h.CheckBulk)
	})

	return r
}

func (h *PublicHandler) CheckOne(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookupService.CheckOne(r.Context(), serialParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PublicHandler) CheckBulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Serials []string `json:"serials"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Provide up to 10 serials"))
		return
	}

	results, err := h.lookupService.CheckBulk(r.Context(), req.Serials)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
