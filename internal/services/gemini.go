package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"trekhive-backend/internal/models"
)

// assistantContext is the fixed persona turn prepended to every chat call.
// The upstream wire format has no independent system role, so it rides as the
// first "user" turn and is never echoed back in the conversation history.
const assistantContext = `You are TrekHive's AI assistant, specialized in helping users find and plan amazing trekking and adventure experiences. You have knowledge about:
- Trekking destinations across India and globally
- Adventure sports and outdoor activities
- Travel planning and budgeting
- Safety guidelines for outdoor adventures
- Equipment recommendations
- Weather conditions and best times to visit
- Local culture and customs

Keep responses helpful, friendly, and focused on adventure travel. If users ask about booking or specific trips, guide them to explore the available options on the platform.`

type GeminiService struct {
	client    *genai.Client
	planner   *genai.GenerativeModel
	assistant *genai.GenerativeModel
}

func NewGeminiService(apiKey, modelName string, plannerMaxTokens, assistantMaxTokens int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	planner := client.GenerativeModel(modelName)
	planner.SetTemperature(0.7)
	planner.SetTopK(40)
	planner.SetTopP(0.95)
	planner.SetMaxOutputTokens(int32(plannerMaxTokens))

	assistant := client.GenerativeModel(modelName)
	assistant.SetTemperature(0.7)
	assistant.SetTopK(40)
	assistant.SetTopP(0.95)
	assistant.SetMaxOutputTokens(int32(assistantMaxTokens))
	assistant.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	return &GeminiService{
		client:    client,
		planner:   planner,
		assistant: assistant,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// PlanTrip issues one generative call and shapes the reply into a TripPlanResult.
// An error is returned only for transport or reply-shape failures; unparseable
// plan text degrades to the fallback branch of the result instead.
func (s *GeminiService) PlanTrip(ctx context.Context, req models.TripPlanRequest) (*models.TripPlanResult, error) {
	from, to := req.Dates()
	days := tripDays(from, to)

	prompt := buildTripPrompt(req.Destination, days, req.Budget)

	resp, err := s.planner.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := extractText(resp)
	if raw == "" {
		return nil, fmt.Errorf("invalid response from Gemini API: no candidate content")
	}

	return parseTripPlan(stripCodeFence(raw), req, days), nil
}

// Reply sends one chat turn with the caller-owned history and returns the
// reply text plus the updated history. Nothing is retained server-side.
func (s *GeminiService) Reply(ctx context.Context, message string, history []models.ChatTurn) (*models.ChatReply, error) {
	cs := s.assistant.StartChat()
	cs.History = append([]*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(assistantContext)}},
	}, toGenaiHistory(history)...)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	reply := extractText(resp)
	if reply == "" {
		return nil, fmt.Errorf("invalid response from Gemini API: no candidate content")
	}

	return &models.ChatReply{
		Response:            reply,
		ConversationHistory: appendExchange(history, message, reply),
	}, nil
}

// Helper functions

// tripDays is the inclusive day count of the trip: a same-day trip is 1 day.
// Unparseable dates yield 0 and, downstream, a degenerate prompt; the planner
// never rejects its input.
func tripDays(from, to time.Time) int {
	if from.IsZero() || to.IsZero() {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

func buildTripPrompt(destination string, days, budget int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a comprehensive travel planner for TrekHive, specializing in adventure and trekking experiences. Create a detailed day-wise itinerary for a %d-day trip to %s with a budget of %d.\n\n", days, destination, budget)

	b.WriteString(`For each day, provide:
1. Day number and date
2. Main activities/attractions (focus on trekking, adventure, and natural attractions)
3. Specific place names with exact locations
4. Estimated cost breakdown
5. Travel tips and recommendations
6. Best time to visit each location
7. Difficulty level for trekking activities

IMPORTANT: Also include comprehensive sections for:
- Transportation options (how to reach by bus, car, bike, train, flight)
- Essential items to carry (based on destination climate and activities)
- Safety precautions and guidelines
- Weather considerations
- Local customs and cultural guidelines
- Food recommendations and dietary considerations

Format the response as a structured JSON with this exact format:
`)

	fmt.Fprintf(&b, `{
  "destination": "%s",
  "totalDays": %d,
  "totalBudget": %d,
`, destination, days, budget)

	b.WriteString(`  "transportation": {
    "byBus": {"routes": ["Route details"], "cost": "Estimated cost", "duration": "Travel time", "tips": "Bus travel tips"},
    "byCar": {"routes": ["Route details with stops"], "cost": "Fuel and toll estimates", "duration": "Driving time", "tips": "Road conditions and parking info"},
    "byBike": {"routes": ["Bike-friendly routes"], "cost": "Fuel estimates", "duration": "Riding time", "tips": "Safety gear and road conditions"},
    "byTrain": {"stations": ["Nearest railway stations"], "cost": "Ticket price range", "duration": "Travel time", "tips": "Booking and connectivity info"},
    "byFlight": {"airports": ["Nearest airports"], "cost": "Flight price range", "duration": "Flight time", "tips": "Airport connectivity"}
  },
  "essentialItems": {
    "clothing": ["Weather-appropriate clothing items"],
    "gear": ["Trekking and adventure gear"],
    "personal": ["Personal care and health items"],
    "electronics": ["Cameras, power banks, etc."],
    "emergency": ["First aid and emergency supplies"],
    "food": ["Food and water recommendations"]
  },
  "safetyPrecautions": {
    "general": ["General safety guidelines"],
    "weather": ["Weather-related precautions"],
    "altitude": ["High altitude precautions if applicable"],
    "wildlife": ["Wildlife safety measures"],
    "medical": ["Medical precautions and emergency contacts"],
    "communication": ["Emergency contact numbers"]
  },
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "places": [
        {
          "name": "Place Name",
          "location": "Exact location/address",
          "description": "Brief description",
          "activities": ["activity1", "activity2"],
          "estimatedCost": 500,
          "difficulty": "Easy/Moderate/Hard",
          "bestTime": "Morning/Afternoon/Evening",
          "tips": "Specific tips for this place"
        }
      ],
      "totalDayCost": 1500,
      "tips": "Travel tips for the day",
      "meals": "Recommended meals and restaurants",
      "accommodation": "Suggested stay options"
    }
  ],
  "additionalTips": "General travel tips for the entire trip",
  "packingList": ["item1", "item2", "item3"],
  "localInfo": {
    "culture": "Local customs and traditions",
    "language": "Local language tips",
    "currency": "Currency exchange info",
    "emergency": "Emergency services and hospitals"
  },
  "weatherInfo": {
    "season": "Best season to visit",
    "temperature": "Expected temperature range",
    "rainfall": "Rainfall expectations",
    "clothing": "Weather-appropriate clothing"
  }
}

`)

	fmt.Fprintf(&b, "Ensure all place names are real, specific locations near %s. Focus on adventure activities, trekking spots, scenic viewpoints, local experiences, and natural attractions. Provide practical, actionable information for travelers.", destination)

	return b.String()
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseTripPlan attempts the structured parse; on failure it downgrades to
// the fallback envelope so the caller still sees the raw text.
func parseTripPlan(raw string, req models.TripPlanRequest, days int) *models.TripPlanResult {
	var plan models.TripPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return &models.TripPlanResult{
			Fallback: &models.PlanFallback{
				Destination: req.Destination,
				TotalDays:   days,
				TotalBudget: req.Budget,
				RawResponse: raw,
				Error:       "Could not parse structured response",
			},
		}
	}

	for i := range plan.Days {
		for j := range plan.Days[i].Places {
			p := &plan.Days[i].Places[j]
			p.Difficulty = models.NormalizeDifficulty(p.Difficulty)
		}
	}

	return &models.TripPlanResult{Plan: &plan}
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func toGenaiHistory(turns []models.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		parts := make([]genai.Part, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, genai.Text(p.Text))
		}
		contents = append(contents, &genai.Content{Role: turn.Role, Parts: parts})
	}
	return contents
}

// appendExchange returns the prior history plus the new user and model turns,
// preserving turn order exactly. The caller resends this on its next call.
func appendExchange(history []models.ChatTurn, message, reply string) []models.ChatTurn {
	updated := make([]models.ChatTurn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated, models.UserTurn(message), models.ModelTurn(reply))
	return updated
}
