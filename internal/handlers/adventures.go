package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trekhive-backend/internal/models"
)

const (
	listCacheTTL    = 60 * time.Second
	markersCacheTTL = 5 * time.Minute
)

type adventureStore interface {
	List(ctx context.Context, filter models.AdventureFilter) ([]*models.Adventure, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Adventure, error)
	Markers(ctx context.Context) ([]models.AdventureMarker, error)
}

type AdventureHandler struct {
	adventures adventureStore
	cache      *redis.Client
}

func NewAdventureHandler(adventures adventureStore, cache *redis.Client) *AdventureHandler {
	return &AdventureHandler{adventures: adventures, cache: cache}
}

func (h *AdventureHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := parseAdventureFilter(r)

	cacheKey := "adventures:list:" + r.URL.Query().Encode()
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	adventures, total, err := h.adventures.List(r.Context(), filter)
	if err != nil {
		log.Printf("failed to list adventures: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load adventures", r))
		return
	}
	if adventures == nil {
		adventures = []*models.Adventure{}
	}

	resp := map[string]interface{}{
		"adventures": adventures,
		"total":      total,
		"limit":      filter.Limit,
		"offset":     filter.Offset,
	}

	h.writeAndCache(r.Context(), w, cacheKey, listCacheTTL, resp)
}

func (h *AdventureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid adventure id", r))
		return
	}

	adventure, err := h.adventures.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Adventure not found", r))
		return
	}

	writeJSON(w, http.StatusOK, adventure)
}

// Markers serves the coordinates the map plots. Rows without coordinates
// never appear here, so the client needs no null checks.
func (h *AdventureHandler) Markers(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "adventures:markers"
	if h.serveCached(r.Context(), w, cacheKey) {
		return
	}

	markers, err := h.adventures.Markers(r.Context())
	if err != nil {
		log.Printf("failed to load adventure markers: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load markers", r))
		return
	}
	if markers == nil {
		markers = []models.AdventureMarker{}
	}

	h.writeAndCache(r.Context(), w, cacheKey, markersCacheTTL, map[string]interface{}{"markers": markers})
}

// serveCached replays a cached response body if one exists. Cache errors are
// treated as misses.
func (h *AdventureHandler) serveCached(ctx context.Context, w http.ResponseWriter, key string) bool {
	if h.cache == nil {
		return false
	}
	cached, err := h.cache.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(cached))
	return true
}

func (h *AdventureHandler) writeAndCache(ctx context.Context, w http.ResponseWriter, key string, ttl time.Duration, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encoding failed"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, body, ttl).Err(); err != nil {
			log.Printf("failed to cache %s: %v", key, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func parseAdventureFilter(r *http.Request) models.AdventureFilter {
	q := r.URL.Query()

	filter := models.AdventureFilter{
		Category:   q.Get("category"),
		Difficulty: q.Get("difficulty"),
		Search:     q.Get("search"),
		Limit:      20,
	}

	if v, err := strconv.Atoi(q.Get("min_price")); err == nil && v > 0 {
		filter.MinPrice = v
	}
	if v, err := strconv.Atoi(q.Get("max_price")); err == nil && v > 0 {
		filter.MaxPrice = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		if v > 50 {
			v = 50
		}
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	return filter
}
