package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trekhive-backend/internal/models"
)

type stubAssistant struct {
	reply      string
	err        error
	gotMessage string
	gotHistory []models.ChatTurn
}

func (s *stubAssistant) Reply(ctx context.Context, message string, history []models.ChatTurn) (*models.ChatReply, error) {
	s.gotMessage = message
	s.gotHistory = history
	if s.err != nil {
		return nil, s.err
	}
	updated := make([]models.ChatTurn, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated, models.UserTurn(message), models.ModelTurn(s.reply))
	return &models.ChatReply{Response: s.reply, ConversationHistory: updated}, nil
}

func TestChatHandler_Message_FirstTurn(t *testing.T) {
	assistant := &stubAssistant{reply: "The best treks near Manali are Hampta Pass and Beas Kund."}
	h := &ChatHandler{assistant: assistant}

	body := `{"message":"Suggest treks near Manali","conversationHistory":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Message(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if assistant.gotMessage != "Suggest treks near Manali" {
		t.Fatalf("unexpected message forwarded: %q", assistant.gotMessage)
	}

	var reply models.ChatReply
	if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if reply.Response != assistant.reply {
		t.Fatalf("unexpected response text: %q", reply.Response)
	}
	if len(reply.ConversationHistory) != 2 {
		t.Fatalf("first turn should return 2 history entries, got %d", len(reply.ConversationHistory))
	}
	if reply.ConversationHistory[0].Role != "user" || reply.ConversationHistory[1].Role != "model" {
		t.Fatalf("unexpected roles: %q, %q", reply.ConversationHistory[0].Role, reply.ConversationHistory[1].Role)
	}
}

func TestChatHandler_Message_HistoryGrowsByTwo(t *testing.T) {
	assistant := &stubAssistant{reply: "June to September is ideal."}
	h := &ChatHandler{assistant: assistant}

	body := `{
		"message": "When should I go?",
		"conversationHistory": [
			{"role": "user", "parts": [{"text": "Suggest treks near Manali"}]},
			{"role": "model", "parts": [{"text": "Hampta Pass and Beas Kund."}]}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Message(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(assistant.gotHistory) != 2 {
		t.Fatalf("prior history should be forwarded intact, got %d turns", len(assistant.gotHistory))
	}

	var reply models.ChatReply
	if err := json.NewDecoder(rr.Body).Decode(&reply); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(reply.ConversationHistory) != 4 {
		t.Fatalf("history should grow by exactly two turns, got %d", len(reply.ConversationHistory))
	}

	// Prior turns come back verbatim, in order.
	if reply.ConversationHistory[0].Parts[0].Text != "Suggest treks near Manali" {
		t.Fatalf("prior turn altered: %q", reply.ConversationHistory[0].Parts[0].Text)
	}
	if reply.ConversationHistory[3].Parts[0].Text != "June to September is ideal." {
		t.Fatalf("last turn should be the new reply: %q", reply.ConversationHistory[3].Parts[0].Text)
	}
}

func TestChatHandler_Message_UpstreamError(t *testing.T) {
	assistant := &stubAssistant{err: errors.New("Gemini API error: 429")}
	h := &ChatHandler{assistant: assistant}

	body := `{"message":"hello","conversationHistory":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Message(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["error"] != "Failed to get response from AI assistant. Please try again." {
		t.Fatalf("unexpected error message: %q", payload["error"])
	}
	if payload["details"] == "" {
		t.Fatalf("details must carry the underlying cause")
	}
}
