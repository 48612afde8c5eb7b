package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"trekhive-backend/internal/middleware"
	"trekhive-backend/internal/models"
)

type stubPlanner struct {
	result *models.TripPlanResult
	err    error
	calls  int
}

func (s *stubPlanner) PlanTrip(ctx context.Context, req models.TripPlanRequest) (*models.TripPlanResult, error) {
	s.calls++
	return s.result, s.err
}

type stubTripSaver struct {
	saved *models.TripRecommendation
	err   error
}

func (s *stubTripSaver) Create(ctx context.Context, rec *models.TripRecommendation) error {
	if s.err != nil {
		return s.err
	}
	s.saved = rec
	return nil
}

func samplePlan() *models.TripPlanResult {
	return &models.TripPlanResult{
		Plan: &models.TripPlan{
			Destination: "Manali",
			TotalDays:   3,
			TotalBudget: 15000,
			Days: []models.DayPlan{
				{Day: 1, Date: "2026-04-01", Places: []models.Place{{Name: "Solang Valley"}}},
			},
		},
	}
}

func TestPlanHandler_Generate_Success(t *testing.T) {
	planner := &stubPlanner{result: samplePlan()}
	h := &PlanHandler{planner: planner, now: time.Now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/trip-planner", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Generate(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload struct {
		TripPlan models.TripPlan `json:"tripPlan"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.TripPlan.Destination != "Manali" || payload.TripPlan.TotalDays != 3 {
		t.Fatalf("unexpected tripPlan: %+v", payload.TripPlan)
	}
}

func TestPlanHandler_Generate_FallbackStill200(t *testing.T) {
	planner := &stubPlanner{result: &models.TripPlanResult{
		Fallback: &models.PlanFallback{
			Destination: "Manali",
			TotalDays:   3,
			TotalBudget: 15000,
			RawResponse: "Day 1: Solang Valley...",
			Error:       "Could not parse structured response",
		},
	}}
	h := &PlanHandler{planner: planner, now: time.Now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/trip-planner", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Generate(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("fallback must stay a 200, got %d", rr.Code)
	}

	var payload struct {
		TripPlan struct {
			RawResponse string `json:"rawResponse"`
			Error       string `json:"error"`
		} `json:"tripPlan"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.TripPlan.RawResponse == "" || payload.TripPlan.Error == "" {
		t.Fatalf("fallback body missing rawResponse/error: %+v", payload.TripPlan)
	}
}

func TestPlanHandler_Generate_UpstreamError(t *testing.T) {
	planner := &stubPlanner{err: errors.New("Gemini API error: 503")}
	h := &PlanHandler{planner: planner, now: time.Now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/trip-planner", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Generate(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] != "Failed to generate trip plan. Please try again." {
		t.Fatalf("unexpected error message: %q", payload["error"])
	}
	if payload["details"] == "" {
		t.Fatalf("details must carry the underlying cause")
	}
}

func TestPlanHandler_PlanAndSave_Persists(t *testing.T) {
	planner := &stubPlanner{result: samplePlan()}
	saver := &stubTripSaver{}
	userID := uuid.New()

	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := &PlanHandler{planner: planner, trips: saver, now: now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))

	rr := httptest.NewRecorder()
	h.PlanAndSave(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if saver.saved == nil {
		t.Fatalf("expected plan to be persisted")
	}
	if saver.saved.UserID != userID || saver.saved.Destination != "Manali" {
		t.Fatalf("unexpected saved record: %+v", saver.saved)
	}

	var payload struct {
		Saved bool `json:"saved"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !payload.Saved {
		t.Fatalf("expected saved=true")
	}
}

func TestPlanHandler_PlanAndSave_SaveFailureStill200(t *testing.T) {
	planner := &stubPlanner{result: samplePlan()}
	saver := &stubTripSaver{err: errors.New("connection refused")}

	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := &PlanHandler{planner: planner, trips: saver, now: now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))

	rr := httptest.NewRecorder()
	h.PlanAndSave(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("persistence failure must not block the plan, got %d", rr.Code)
	}

	var payload struct {
		Saved bool `json:"saved"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Saved {
		t.Fatalf("expected saved=false after persistence failure")
	}
}

func TestPlanHandler_PlanAndSave_FallbackNotPersisted(t *testing.T) {
	planner := &stubPlanner{result: &models.TripPlanResult{
		Fallback: &models.PlanFallback{Destination: "Manali", Error: "Could not parse structured response"},
	}}
	saver := &stubTripSaver{}

	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := &PlanHandler{planner: planner, trips: saver, now: now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-03","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))

	rr := httptest.NewRecorder()
	h.PlanAndSave(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if saver.saved != nil {
		t.Fatalf("fallback results must not be persisted")
	}
}

func TestValidateTripPlanRequest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		req       models.TripPlanRequest
		wantField string
	}{
		{
			"missing destination",
			models.TripPlanRequest{FromDate: "2026-04-01", ToDate: "2026-04-03", Budget: 1000},
			"destination",
		},
		{
			"zero budget",
			models.TripPlanRequest{Destination: "Manali", FromDate: "2026-04-01", ToDate: "2026-04-03"},
			"budget",
		},
		{
			"unparseable start date",
			models.TripPlanRequest{Destination: "Manali", FromDate: "April 1st", ToDate: "2026-04-03", Budget: 1000},
			"fromDate",
		},
		{
			"start in the past",
			models.TripPlanRequest{Destination: "Manali", FromDate: "2026-02-01", ToDate: "2026-04-03", Budget: 1000},
			"fromDate",
		},
		{
			"end equals start",
			models.TripPlanRequest{Destination: "Manali", FromDate: "2026-04-01", ToDate: "2026-04-01", Budget: 1000},
			"toDate",
		},
		{
			"end before start",
			models.TripPlanRequest{Destination: "Manali", FromDate: "2026-04-03", ToDate: "2026-04-01", Budget: 1000},
			"toDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validateTripPlanRequest(tt.req, now)
			if _, ok := fields[tt.wantField]; !ok {
				t.Fatalf("expected field error on %q, got %v", tt.wantField, fields)
			}
		})
	}

	t.Run("valid request", func(t *testing.T) {
		req := models.TripPlanRequest{Destination: "Manali", FromDate: "2026-04-01", ToDate: "2026-04-03", Budget: 1000}
		if fields := validateTripPlanRequest(req, now); len(fields) > 0 {
			t.Fatalf("expected no field errors, got %v", fields)
		}
	})
}

func TestPlanHandler_PlanAndSave_ValidationSkipsUpstream(t *testing.T) {
	planner := &stubPlanner{result: samplePlan()}
	now := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := &PlanHandler{planner: planner, trips: &stubTripSaver{}, now: now}

	body := `{"destination":"Manali","fromDate":"2026-04-01","toDate":"2026-04-01","budget":15000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/plan", strings.NewReader(body))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, uuid.New()))

	rr := httptest.NewRecorder()
	h.PlanAndSave(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if planner.calls != 0 {
		t.Fatalf("validation failure must not reach the planner")
	}
}
