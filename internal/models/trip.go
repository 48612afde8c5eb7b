package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// TripPlanRequest is the body accepted by the trip-planner endpoint.
type TripPlanRequest struct {
	Destination string `json:"destination"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	Budget      int    `json:"budget"`
}

// Dates parses the request's date strings. Zero times are returned for
// unparseable values; the planner deliberately does not reject them.
func (r TripPlanRequest) Dates() (from, to time.Time) {
	from, _ = time.Parse(dateLayout, r.FromDate)
	to, _ = time.Parse(dateLayout, r.ToDate)
	return from, to
}

// Place is one stop within a day of the itinerary.
type Place struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	Activities    []string `json:"activities"`
	EstimatedCost int      `json:"estimatedCost"`
	Difficulty    string   `json:"difficulty,omitempty"`
	BestTime      string   `json:"bestTime,omitempty"`
	Tips          string   `json:"tips,omitempty"`
}

// DayPlan is one day of the itinerary, day numbers 1..N contiguous.
type DayPlan struct {
	Day           int     `json:"day"`
	Date          string  `json:"date"`
	Places        []Place `json:"places"`
	TotalDayCost  int     `json:"totalDayCost"`
	Tips          string  `json:"tips,omitempty"`
	Meals         string  `json:"meals,omitempty"`
	Accommodation string  `json:"accommodation,omitempty"`
}

// TransportationMode describes one way of reaching the destination.
type TransportationMode struct {
	Routes   []string `json:"routes,omitempty"`
	Stations []string `json:"stations,omitempty"`
	Airports []string `json:"airports,omitempty"`
	Cost     string   `json:"cost,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Tips     string   `json:"tips,omitempty"`
}

type Transportation struct {
	ByBus    *TransportationMode `json:"byBus,omitempty"`
	ByCar    *TransportationMode `json:"byCar,omitempty"`
	ByBike   *TransportationMode `json:"byBike,omitempty"`
	ByTrain  *TransportationMode `json:"byTrain,omitempty"`
	ByFlight *TransportationMode `json:"byFlight,omitempty"`
}

type EssentialItems struct {
	Clothing    []string `json:"clothing,omitempty"`
	Gear        []string `json:"gear,omitempty"`
	Personal    []string `json:"personal,omitempty"`
	Electronics []string `json:"electronics,omitempty"`
	Emergency   []string `json:"emergency,omitempty"`
	Food        []string `json:"food,omitempty"`
}

type SafetyPrecautions struct {
	General       []string `json:"general,omitempty"`
	Weather       []string `json:"weather,omitempty"`
	Altitude      []string `json:"altitude,omitempty"`
	Wildlife      []string `json:"wildlife,omitempty"`
	Medical       []string `json:"medical,omitempty"`
	Communication []string `json:"communication,omitempty"`
}

type LocalInfo struct {
	Culture   string `json:"culture,omitempty"`
	Language  string `json:"language,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Emergency string `json:"emergency,omitempty"`
}

type WeatherInfo struct {
	Season      string `json:"season,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Rainfall    string `json:"rainfall,omitempty"`
	Clothing    string `json:"clothing,omitempty"`
}

// TripPlan is the structured itinerary produced from a single generative call.
// Advisory sections are optional because the generator may omit them.
type TripPlan struct {
	Destination       string             `json:"destination"`
	TotalDays         int                `json:"totalDays"`
	TotalBudget       int                `json:"totalBudget"`
	Transportation    *Transportation    `json:"transportation,omitempty"`
	EssentialItems    *EssentialItems    `json:"essentialItems,omitempty"`
	SafetyPrecautions *SafetyPrecautions `json:"safetyPrecautions,omitempty"`
	Days              []DayPlan          `json:"days"`
	AdditionalTips    string             `json:"additionalTips,omitempty"`
	PackingList       []string           `json:"packingList,omitempty"`
	LocalInfo         *LocalInfo         `json:"localInfo,omitempty"`
	WeatherInfo       *WeatherInfo       `json:"weatherInfo,omitempty"`
}

// PlanFallback is the degraded shape returned when the generator's reply
// cannot be parsed as a TripPlan. The raw text is preserved verbatim and the
// Error field is the discriminator between the two shapes.
type PlanFallback struct {
	Destination string `json:"destination"`
	TotalDays   int    `json:"totalDays"`
	TotalBudget int    `json:"totalBudget"`
	RawResponse string `json:"rawResponse"`
	Error       string `json:"error"`
}

// TripPlanResult is the tagged union behind the response's tripPlan key:
// exactly one of Plan or Fallback is set.
type TripPlanResult struct {
	Plan     *TripPlan
	Fallback *PlanFallback
}

func (r *TripPlanResult) IsFallback() bool { return r.Fallback != nil }

func (r *TripPlanResult) MarshalJSON() ([]byte, error) {
	if r.Fallback != nil {
		return json.Marshal(r.Fallback)
	}
	return json.Marshal(r.Plan)
}

// TripRecommendation is a generated plan persisted for the requesting user.
type TripRecommendation struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Destination string          `json:"destination"`
	FromDate    time.Time       `json:"from_date"`
	ToDate      time.Time       `json:"to_date"`
	Budget      int             `json:"budget"`
	Plan        json.RawMessage `json:"plan"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Difficulty tags form an open enumeration: known values normalize
// case-insensitively, anything else passes through unclassified.
var knownDifficulties = map[string]string{
	"easy":     "easy",
	"moderate": "moderate",
	"hard":     "hard",
	"expert":   "expert",
}

func NormalizeDifficulty(s string) string {
	if canonical, ok := knownDifficulties[strings.ToLower(strings.TrimSpace(s))]; ok {
		return canonical
	}
	return s
}
