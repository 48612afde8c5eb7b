package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trekhive-backend/internal/middleware"
	"trekhive-backend/internal/models"
)

type tripStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.TripRecommendation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.TripRecommendation, int, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type TripHandler struct {
	trips tripStore
}

func NewTripHandler(trips tripStore) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		if v > 50 {
			v = 50
		}
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}

	trips, total, err := h.trips.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("failed to list trips for user %s: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load trips", r))
		return
	}
	if trips == nil {
		trips = []*models.TripRecommendation{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trips":  trips,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid trip id", r))
		return
	}

	trip, err := h.trips.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Trip not found", r))
		return
	}
	if trip.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "You do not have access to this trip", r))
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid trip id", r))
		return
	}

	deleted, err := h.trips.Delete(r.Context(), id, userID)
	if err != nil {
		log.Printf("failed to delete trip %s: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete trip", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Trip not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted"})
}
