package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/serialcheck/serialcheck-server/internal/audit"
	apperrors "github.com/serialcheck/serialcheck-server/internal/errors"
	"github.com/serialcheck/serialcheck-server/internal/middleware"
	"github.com/serialcheck/serialcheck-server/internal/service"
)

type AdminHandler struct {
	sessionService     *service.SessionService
	maintenanceService *service.MaintenanceService
	authMiddleware     func(http.Handler) http.Handler
	loginRateLimit     func(http.Handler) http.Handler
}

func NewAdminHandler(
	sessionService *service.SessionService,
	maintenanceService *service.MaintenanceService,
	authMiddleware func(http.Handler) http.Handler,
	loginRateLimit func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		sessionService:     sessionService,
		maintenanceService: maintenanceService,
		authMiddleware:     authMiddleware,
		loginRateLimit:     loginRateLimit,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	login := http.Handler(http.HandlerFunc(h.Login))
	if h.loginRateLimit != nil {
		login = h.loginRateLimit(login)
	}
	r.Method(http.MethodPost, "/login", login)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)

		r.Get("/list", h.List)
		r.Post("/add", h.Add)
		r.Delete("/delete/{sn}", h.Delete)
		r.Post("/clear", h.Clear)
		r.Post("/reformat", h.Reformat)
		r.Post("/reset-rate", h.ResetRate)
	})

	return r
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Username and password required"))
		return
	}

	result, err := h.sessionService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeUnauthorized {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventLoginFailure,
				Details: map[string]interface{}{"username": req.Username},
			})
		}
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:  audit.EventLoginSuccess,
		Admin: req.Username,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"token":     result.Token,
		"expires":   result.ExpiresIn,
		"expiresAt": result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.maintenanceService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, formatSerials(records))
}

func (h *AdminHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SerialNumber string  `json:"sn"`
		Status       string  `json:"status"`
		Note         *string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Serial and valid status required"))
		return
	}

	saved, err := h.maintenanceService.Add(r.Context(), req.SerialNumber, req.Status, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit(r, audit.EventSerialUpsert, map[string]interface{}{
		"sn":     saved.SerialNumber,
		"status": string(saved.Status),
	})
	writeMessage(w, http.StatusCreated, "Serial saved")
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sn := serialParam(r)
	if err := h.maintenanceService.Delete(r.Context(), sn); err != nil {
		writeError(w, err)
		return
	}

	h.audit(r, audit.EventSerialDelete, map[string]interface{}{"sn": sn})
	writeMessage(w, http.StatusOK, "Serial deleted")
}

func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.maintenanceService.Clear(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit(r, audit.EventSerialsClear, map[string]interface{}{"deleted": deleted})
	writeMessage(w, http.StatusOK, "All serials cleared")
}

func (h *AdminHandler) Reformat(w http.ResponseWriter, r *http.Request) {
	updated, err := h.maintenanceService.Reformat(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	h.audit(r, audit.EventSerialsReformat, map[string]interface{}{"updated": updated})
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Database reformatted",
		"updated": updated,
	})
}

func (h *AdminHandler) ResetRate(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenanceService.ResetRateLimits(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	h.audit(r, audit.EventRateLimitReset, nil)
	writeMessage(w, http.StatusOK, "Rate limits reset")
}

func (h *AdminHandler) audit(r *http.Request, eventType audit.EventType, details map[string]interface{}) {
	event := audit.Event{Type: eventType, Details: details}
	if admin := middleware.GetAdmin(r.Context()); admin != nil {
		event.Admin = admin.Username
	}
	audit.LogFromRequest(r, event)
}
