package backend

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thehive/hive-events/internal/logger"
)

// Handler serves the scraped-event ingest API.
type Handler struct {
	store  *Store
	apiKey string
	log    *logger.Logger
}

// NewHandler creates the ingest handler.
func NewHandler(store *Store, apiKey string, log *logger.Logger) *Handler {
	return &Handler{store: store, apiKey: apiKey, log: log}
}

// Router builds the HTTP routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Post("/api/events/scraped", h.createScraped)
	return r
}

type scrapedRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	EndDate     string `json:"end_date"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	PostURL     string `json:"post_url"`
	ClubName    string `json:"club_name"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createScraped implements the idempotent sync contract: 201 for a new
// event, 200 for an existing one, 400 for a payload missing required
// fields, 401 for a bad credential.
func (h *Handler) createScraped(w http.ResponseWriter, r *http.Request) {
	if key := r.Header.Get("x-api-key"); key == "" || key != h.apiKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid API key"})
		return
	}

	var req scrapedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}

	if req.Title == "" || req.EventDate == "" || req.ClubName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "title, event_date, and club_name are required",
		})
		return
	}

	ctx := r.Context()

	clubID, err := h.store.FindOrCreateClub(ctx, req.ClubName)
	if err != nil {
		h.logError("Club lookup failed", req.ClubName, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	id, created, err := h.store.CreateEvent(ctx, Event{
		ClubID:      clubID,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Category:    req.Category,
		Source:      req.Source,
		PostURL:     req.PostURL,
	})
	if err != nil {
		h.logError("Event insert failed", req.ClubName, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	if !created {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Event already exists", "id": id})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Scraped event created", "id": id})
}

func (h *Handler) logError(msg, club string, err error) {
	if h.log != nil {
		h.log.Error(msg, logger.Fields{"club": club}, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
