package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"trekhive-backend/internal/middleware"
	"trekhive-backend/internal/models"
)

type tripPlanner interface {
	PlanTrip(ctx context.Context, req models.TripPlanRequest) (*models.TripPlanResult, error)
}

type tripSaver interface {
	Create(ctx context.Context, rec *models.TripRecommendation) error
}

type PlanHandler struct {
	planner tripPlanner
	trips   tripSaver
	now     func() time.Time
}

func NewPlanHandler(planner tripPlanner, trips tripSaver) *PlanHandler {
	return &PlanHandler{planner: planner, trips: trips, now: time.Now}
}

// Generate is the public trip-planner proxy. It performs no input
// validation (the authenticated flow does); any upstream failure is a 500
// with the flat {error, details} body, and an unparseable generator reply is
// still a 200 carrying the fallback envelope.
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.TripPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProxyError(w, "Failed to generate trip plan. Please try again.", err)
		return
	}

	result, err := h.planner.PlanTrip(r.Context(), req)
	if err != nil {
		log.Printf("trip-planner upstream error: %v", err)
		writeProxyError(w, "Failed to generate trip plan. Please try again.", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tripPlan": result})
}

// PlanAndSave is the authenticated search flow: validate, plan, then persist
// the structured result for the requesting user. The save is best-effort; a
// persistence failure is logged and never blocks returning the plan.
func (h *PlanHandler) PlanAndSave(w http.ResponseWriter, r *http.Request) {
	var req models.TripPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if fields := validateTripPlanRequest(req, h.now()); len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	result, err := h.planner.PlanTrip(r.Context(), req)
	if err != nil {
		log.Printf("trip-planner upstream error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("AI_ERROR", "Failed to generate trip plan. Please try again.", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	saved := false
	if result.Plan != nil {
		from, to := req.Dates()
		planJSON, err := json.Marshal(result.Plan)
		if err == nil {
			rec := &models.TripRecommendation{
				UserID:      userID,
				Destination: req.Destination,
				FromDate:    from,
				ToDate:      to,
				Budget:      req.Budget,
				Plan:        planJSON,
			}
			if err := h.trips.Create(r.Context(), rec); err != nil {
				log.Printf("failed to save trip recommendation for user %s: %v", userID, err)
			} else {
				saved = true
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tripPlan": result,
		"saved":    saved,
	})
}

// validateTripPlanRequest enforces the search-form contract: non-empty
// destination, parseable dates, a positive budget, a start no earlier than
// today, and an end strictly after the start. Violations mean no upstream
// call is made.
func validateTripPlanRequest(req models.TripPlanRequest, now time.Time) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(req.Destination) == "" {
		fields["destination"] = "Destination is required"
	}
	if req.Budget <= 0 {
		fields["budget"] = "Budget must be a positive number"
	}

	from, errFrom := time.Parse("2006-01-02", req.FromDate)
	if errFrom != nil {
		fields["fromDate"] = "Start date is required (YYYY-MM-DD)"
	}
	to, errTo := time.Parse("2006-01-02", req.ToDate)
	if errTo != nil {
		fields["toDate"] = "End date is required (YYYY-MM-DD)"
	}
	if errFrom != nil || errTo != nil {
		return fields
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if from.Before(today) {
		fields["fromDate"] = "Start date cannot be in the past"
	}
	if !to.After(from) {
		fields["toDate"] = "End date must be after start date"
	}

	return fields
}

// writeProxyError emits the proxy endpoints' flat error body. The message is
// what end users see; details carries the underlying cause for the client's
// logs, never for display.
func writeProxyError(w http.ResponseWriter, message string, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   message,
		"details": err.Error(),
	})
}
