// Package server exposes the provider over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"

	"github.com/Belphemur/TVApi/internal/apperrors"
	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/models"
	"github.com/Belphemur/TVApi/internal/provider"
)

// Handler serves the provider operations.
type Handler struct {
	provider provider.Provider
}

// NewHTTPServer creates an HTTP server exposing p on address:port.
func NewHTTPServer(address string, port int, p provider.Provider) *http.Server {
	if port == 0 {
		port = 8080
	}
	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", address, port),
		Handler: NewRouter(p),
	}
}

// NewRouter registers every route of the API.
func NewRouter(p provider.Provider) *mux.Router {
	h := &Handler{provider: p}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware)

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/config", h.Config).Methods(http.MethodGet)
	r.HandleFunc("/shows/{page}", h.Shows).Methods(http.MethodGet)
	r.HandleFunc("/shows/{page}/ids", h.ShowIDs).Methods(http.MethodGet)
	r.HandleFunc("/show/{id}", h.Show).Methods(http.MethodGet)
	r.HandleFunc("/random/show", h.Random).Methods(http.MethodGet)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.Config())
}

// Shows serves GET /shows/{page}?keywords=&genre=&order=&sorter=
func (h *Handler) Shows(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.provider.Fetch(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ShowIDs serves GET /shows/{page}/ids with the unique ids of the page, in order.
func (h *Handler) ShowIDs(w http.ResponseWriter, r *http.Request) {
	filters, err := filtersFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.provider.Fetch(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"ids": h.provider.ExtractIDs(result)})
}

// Show serves GET /show/{id}?tvdb_id=&debug=
// tvdb_id is the tvdb id of the list record the caller already holds.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	query := r.URL.Query()

	var previous *models.Show
	if tvdbID := strings.TrimSpace(query.Get("tvdb_id")); tvdbID != "" {
		previous = &models.Show{TvdbID: tvdbID}
	}
	debug, _ := strconv.ParseBool(query.Get("debug"))

	show, err := h.provider.Detail(r.Context(), id, previous, debug)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	show, err := h.provider.Random(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func filtersFromRequest(r *http.Request) (models.Filters, error) {
	query := r.URL.Query()
	filters := models.Filters{
		Keywords: query.Get("keywords"),
		Genre:    query.Get("genre"),
		Order:    query.Get("order"),
		Sorter:   query.Get("sorter"),
	}

	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil || page < 1 {
		return filters, apperrors.NewInvalidRequestError("page", "must be a positive integer")
	}
	filters.Page = page
	return filters, nil
}

// statusFor maps provider errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, &apperrors.ErrInvalidRequest{}):
		return http.StatusBadRequest
	case errors.Is(err, &apperrors.ErrEndpointsExhausted{}), errors.Is(err, &apperrors.ErrRemote{}):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("request_id", RequestID(r.Context()))
		hub.Scope().SetTag("route", r.URL.Path)
		hub.CaptureException(err)
	}

	logger := config.GetLogger()
	logger.Warn().Err(err).Int("status", status).Str("request_id", RequestID(r.Context())).Msg("Request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}
