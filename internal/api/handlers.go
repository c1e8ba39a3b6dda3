package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/history"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/remote"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/syncer"
)

// Deps carries the collaborators the handlers dispatch to.
type Deps struct {
	Engine    *syncer.Engine
	Journal   *history.Journal
	Remote    remote.Store
	Scheduler *syncer.Scheduler
	Broker    *sse.Broker
}

// Handler holds API route handlers.
type Handler struct {
	deps Deps
}

// NewHandler creates a new Handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Status handles GET /api/status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Busy:      h.deps.Engine.Busy(),
		LastBatch: h.deps.Engine.LastReport(),
	}
	if h.deps.Scheduler != nil {
		resp.AutoSyncRunning = h.deps.Scheduler.Running()
	}
	writeJSON(w, http.StatusOK, resp)
}

// SyncNote handles POST /api/sync.
func (h *Handler) SyncNote(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	res, err := h.deps.Engine.SyncNote(r.Context(), req.Path)
	if err != nil {
		writeSyncError(w, req.Path, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// SyncAll handles POST /api/sync-all.
func (h *Handler) SyncAll(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Engine.SyncAll(r.Context())
	if err != nil {
		slog.Error("batch sync failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// History handles GET /api/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries := []history.Entry{}
	if h.deps.Journal != nil {
		var err error
		entries, err = h.deps.Journal.Recent(limit)
		if err != nil {
			slog.Error("history read failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		if entries == nil {
			entries = []history.Entry{}
		}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}

// Categories handles GET /api/categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.deps.Remote.ListCategories(r.Context())
	if err != nil {
		writeSyncError(w, "", err)
		return
	}
	if cats == nil {
		cats = []models.RemoteCategory{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Items: cats})
}

// writeSyncError maps the error taxonomy onto HTTP status codes.
func writeSyncError(w http.ResponseWriter, path string, err error) {
	var (
		cfgErr    *apperr.ConfigError
		exErr     *apperr.ExtractionError
		remoteErr *apperr.RemoteError
		netErr    *apperr.NetworkError
	)
	switch {
	case errors.Is(err, apperr.ErrSyncBusy):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	case errors.As(err, &exErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
	case errors.As(err, &remoteErr), errors.As(err, &netErr):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		slog.Error("sync failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
	}
}
