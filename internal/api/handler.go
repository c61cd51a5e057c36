// Package api exposes the application over a JSON HTTP surface. The
// presentation layer consumes these DTOs; rendering stays out of scope.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
	"github.com/COSYBANANA63/gitcards/internal/notes"
	"github.com/COSYBANANA63/gitcards/internal/pagination"
	"github.com/COSYBANANA63/gitcards/internal/service"
)

// Handler is the container for API dependencies.
type Handler struct {
	profiles *service.ProfileService
	notes    *notes.Service
	logger   *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(profiles *service.ProfileService, noteSvc *notes.Service, logger *slog.Logger) http.Handler {
	h := &Handler{
		profiles: profiles,
		notes:    noteSvc,
		logger:   logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", h.getStatus)

		r.Get("/users/{username}", h.searchProfile)
		r.Get("/users/{username}/share", h.shareProfile)
		r.Get("/users/{username}/{kind}", h.browseCollection)

		r.Get("/repos/{owner}/{repo}", h.getRepository)
		r.Get("/repos/{owner}/{repo}/contents", h.getContents)
		r.Get("/repos/{owner}/{repo}/commits", h.getCommits)

		r.Post("/profiles", h.saveProfile)
		r.Get("/profiles", h.listProfiles)
		r.Get("/profiles/{id}", h.getSavedProfile)
		r.Delete("/profiles/{id}", h.deleteProfile)

		r.Get("/profiles/{id}/notes", h.listNotes)
		r.Post("/profiles/{id}/notes", h.addNote)
		r.Delete("/notes/{id}", h.deleteNote)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getStatus reports connectivity banner state and the last-used username.
// GET /v1/status
func (h *Handler) getStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.profiles.Status())
}

// searchProfile looks up a remote profile.
// GET /v1/users/{username}
func (h *Handler) searchProfile(w http.ResponseWriter, r *http.Request) {
	card, err := h.profiles.SearchProfile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithAppError(w, err, "search profile")
		return
	}
	respondWithJSON(w, http.StatusOK, card)
}

// shareProfile builds the share-sheet payload for a username.
// GET /v1/users/{username}/share
func (h *Handler) shareProfile(w http.ResponseWriter, r *http.Request) {
	payload, err := h.profiles.Share(chi.URLParam(r, "username"))
	if err != nil {
		h.respondWithAppError(w, err, "share profile")
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

// browseCollection returns one page of a user's repos/followers/following.
// GET /v1/users/{username}/{kind}?page=N
func (h *Handler) browseCollection(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseCollectionKind(chi.URLParam(r, "kind"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown collection")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'page' parameter")
			return
		}
		page = parsed
	}

	view, err := h.profiles.BrowseCollection(r.Context(), kind, chi.URLParam(r, "username"), page)
	if errors.Is(err, pagination.ErrPageOutOfRange) {
		respondWithError(w, http.StatusBadRequest, "Page out of range")
		return
	}
	if err != nil {
		h.respondWithAppError(w, err, "browse collection")
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// getRepository returns repository metadata bundled with its README.
// GET /v1/repos/{owner}/{repo}
func (h *Handler) getRepository(w http.ResponseWriter, r *http.Request) {
	view, err := h.profiles.RepositoryDetail(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "repo"))
	if err != nil {
		h.respondWithAppError(w, err, "repository detail")
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// getContents returns a repository's top-level file listing.
// GET /v1/repos/{owner}/{repo}/contents
func (h *Handler) getContents(w http.ResponseWriter, r *http.Request) {
	entries, err := h.profiles.RepositoryContents(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "repo"))
	if err != nil {
		h.respondWithAppError(w, err, "repository contents")
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// getCommits returns a repository's recent commits.
// GET /v1/repos/{owner}/{repo}/commits
func (h *Handler) getCommits(w http.ResponseWriter, r *http.Request) {
	commits, err := h.profiles.RepositoryCommits(r.Context(), chi.URLParam(r, "owner"), chi.URLParam(r, "repo"))
	if err != nil {
		h.respondWithAppError(w, err, "repository commits")
		return
	}
	respondWithJSON(w, http.StatusOK, commits)
}

// saveProfile persists a profile card as a new snapshot.
// POST /v1/profiles
func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	var card model.ProfileCard
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.profiles.SaveSnapshot(r.Context(), card)
	if err != nil {
		h.respondWithAppError(w, err, "save profile")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// listProfiles returns all saved snapshots, newest first.
// GET /v1/profiles
func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.SavedProfiles(r.Context())
	if err != nil {
		h.respondWithAppError(w, err, "list profiles")
		return
	}
	respondWithJSON(w, http.StatusOK, profiles)
}

// getSavedProfile re-renders one saved snapshot from the cache.
// GET /v1/profiles/{id}
func (h *Handler) getSavedProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	card, err := h.profiles.SavedCard(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, err, "load saved profile")
		return
	}
	respondWithJSON(w, http.StatusOK, card)
}

// deleteProfile removes a saved snapshot and its notes.
// DELETE /v1/profiles/{id}
func (h *Handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.profiles.DeleteSaved(r.Context(), id); err != nil {
		h.respondWithAppError(w, err, "delete profile")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// listNotes returns a profile's notes, newest first.
// GET /v1/profiles/{id}/notes
func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	views, err := h.notes.List(r.Context(), id)
	if err != nil {
		h.respondWithAppError(w, err, "list notes")
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// addNote attaches a note to a saved profile.
// POST /v1/profiles/{id}/notes
func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	noteID, err := h.notes.Add(r.Context(), id, body.Text)
	if err != nil {
		h.respondWithAppError(w, err, "add note")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]int64{"id": noteID})
}

// deleteNote removes one note.
// DELETE /v1/notes/{id}
func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), id); err != nil {
		h.respondWithAppError(w, err, "delete note")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// pathID parses the {id} URL parameter, responding with 400 on garbage.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid 'id' parameter")
		return 0, false
	}
	return id, true
}

// respondWithAppError converts a classified error into its HTTP status
// and user-facing message; unclassified errors become a 500.
func (h *Handler) respondWithAppError(w http.ResponseWriter, err error, operation string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrOffline), errors.Is(err, apperror.ErrTransient):
		status = http.StatusBadGateway
	case errors.Is(err, apperror.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, apperror.ErrStorage):
		status = http.StatusInternalServerError
	default:
		h.logger.Error("Unhandled error", "operation", operation, "error", err)
	}
	respondWithError(w, status, apperror.UserMessage(err))
}
