// Package router wires the HTTP surface: it parses requests, delegates to the
// service layer and maps the shared error taxonomy onto status codes. No
// domain rule lives here.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jurnalku/jurnalku/internal/auth"
	"github.com/jurnalku/jurnalku/internal/authenticator"
	"github.com/jurnalku/jurnalku/internal/gzippedhttp"
	"github.com/jurnalku/jurnalku/internal/journal"
	"github.com/jurnalku/jurnalku/internal/logger"
	"github.com/jurnalku/jurnalku/internal/models"
	"github.com/jurnalku/jurnalku/internal/user"
)

type journalService interface {
	Register(ctx context.Context, request models.RegisterRequest) (user.Public, error)
	Login(ctx context.Context, request models.LoginRequest) (string, user.Public, error)
	Logout(ctx context.Context, token string)
	Profile(ctx context.Context, userID string) (user.Public, error)
	UpdateProfile(ctx context.Context, userID, name string) (user.Public, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	CreateJournal(ctx context.Context, userID string, request models.CreateJournalRequest) (*journal.Entry, error)
	ListJournals(ctx context.Context, userID string) ([]*journal.Entry, error)
	GetJournal(ctx context.Context, userID, entryID string) (*journal.Entry, error)
	UpdateJournal(ctx context.Context, userID, entryID string, request models.UpdateJournalRequest) (*journal.Entry, error)
	DeleteJournal(ctx context.Context, userID, entryID string) error

	PredictMood(ctx context.Context, request models.PredictMoodRequest) (json.RawMessage, error)
	Stats(ctx context.Context) models.HealthStats
}

type handlers struct {
	service journalService
}

// New builds the chi router with logging, gzip and session middleware.
func New(service journalService, authProvider authenticator.Authenticator) *chi.Mux {
	h := &handlers{service: service}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(gzippedhttp.Middleware)

	router.Route("/api", func(router chi.Router) {
		router.Get("/health", h.getHealth)
		router.Post("/auth/register", h.postRegister)
		router.Post("/auth/login", h.postLogin)

		// Logout needs the header but not a live session: destroying an
		// already-destroyed token must still succeed.
		router.Post("/auth/logout", h.postLogout)

		router.Group(func(router chi.Router) {
			router.Use(authProvider.RequireSession)

			router.Get("/auth/profile", h.getProfile)
			router.Put("/auth/profile", h.putProfile)
			router.Put("/auth/change-password", h.putChangePassword)

			router.Post("/journal", h.postJournal)
			router.Get("/journal", h.getJournals)
			router.Get("/journal/{id}", h.getJournal)
			router.Put("/journal/{id}", h.putJournal)
			router.Delete("/journal/{id}", h.deleteJournal)

			router.Post("/predict-mood", h.postPredictMood)
		})
	})

	return router
}

func (h *handlers) getHealth(response http.ResponseWriter, request *http.Request) {
	writeJSON(response, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Message:   "mood journal API is running",
		Timestamp: time.Now().Format(time.RFC3339),
		Stats:     h.service.Stats(request.Context()),
	})
}

func (h *handlers) postRegister(response http.ResponseWriter, request *http.Request) {
	var body models.RegisterRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	registered, err := h.service.Register(request.Context(), body)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, registered)
}

func (h *handlers) postLogin(response http.ResponseWriter, request *http.Request) {
	var body models.LoginRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	token, loggedIn, err := h.service.Login(request.Context(), body)
	if err != nil {
		writeError(response, err)
		return
	}

	response.Header().Set(auth.SessionHeader, token)
	writeJSON(response, http.StatusOK, map[string]interface{}{
		"sessionId": token,
		"user":      loggedIn,
	})
}

func (h *handlers) postLogout(response http.ResponseWriter, request *http.Request) {
	token := request.Header.Get(auth.SessionHeader)
	if token == "" {
		writeError(response, models.ErrUnauthorized)
		return
	}

	h.service.Logout(request.Context(), token)
	writeJSON(response, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *handlers) getProfile(response http.ResponseWriter, request *http.Request) {
	profile, err := h.service.Profile(request.Context(), auth.UserIDFromContext(request.Context()))
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, profile)
}

func (h *handlers) putProfile(response http.ResponseWriter, request *http.Request) {
	var body models.UpdateProfileRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	updated, err := h.service.UpdateProfile(request.Context(), auth.UserIDFromContext(request.Context()), body.Name)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, updated)
}

func (h *handlers) putChangePassword(response http.ResponseWriter, request *http.Request) {
	var body models.ChangePasswordRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	err := h.service.ChangePassword(
		request.Context(),
		auth.UserIDFromContext(request.Context()),
		body.CurrentPassword,
		body.NewPassword,
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *handlers) postJournal(response http.ResponseWriter, request *http.Request) {
	var body models.CreateJournalRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	entry, err := h.service.CreateJournal(request.Context(), auth.UserIDFromContext(request.Context()), body)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, entry)
}

func (h *handlers) getJournals(response http.ResponseWriter, request *http.Request) {
	entries, err := h.service.ListJournals(request.Context(), auth.UserIDFromContext(request.Context()))
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, entries)
}

func (h *handlers) getJournal(response http.ResponseWriter, request *http.Request) {
	entry, err := h.service.GetJournal(
		request.Context(),
		auth.UserIDFromContext(request.Context()),
		chi.URLParam(request, "id"),
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, entry)
}

func (h *handlers) putJournal(response http.ResponseWriter, request *http.Request) {
	var body models.UpdateJournalRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	entry, err := h.service.UpdateJournal(
		request.Context(),
		auth.UserIDFromContext(request.Context()),
		chi.URLParam(request, "id"),
		body,
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, entry)
}

func (h *handlers) deleteJournal(response http.ResponseWriter, request *http.Request) {
	err := h.service.DeleteJournal(
		request.Context(),
		auth.UserIDFromContext(request.Context()),
		chi.URLParam(request, "id"),
	)
	if err != nil {
		writeError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, map[string]string{"message": "journal entry deleted"})
}

func (h *handlers) postPredictMood(response http.ResponseWriter, request *http.Request) {
	var body models.PredictMoodRequest
	if !decodeJSON(response, request, &body) {
		return
	}

	prediction, err := h.service.PredictMood(request.Context(), body)
	if err != nil {
		writeError(response, err)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusOK)
	if _, err := response.Write(prediction); err != nil {
		logger.Log.Debugln("Error writing the prediction response:", err)
	}
}

func decodeJSON(response http.ResponseWriter, request *http.Request, target interface{}) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON body"})
		return false
	}

	return true
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response:", err)
	}
}

func writeError(response http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrEmailTaken):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrUpstream):
	default:
		logger.Log.Errorln("Unexpected error:", err)
	}

	writeJSON(response, status, models.ErrorResponse{Error: err.Error()})
}
