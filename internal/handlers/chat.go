package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"trekhive-backend/internal/models"
)

type assistantService interface {
	Reply(ctx context.Context, message string, history []models.ChatTurn) (*models.ChatReply, error)
}

type ChatHandler struct {
	assistant assistantService
}

func NewChatHandler(assistant assistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

// Message is the stateless assistant proxy: the client owns the history and
// must resend the returned conversationHistory on every subsequent call.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProxyError(w, "Failed to get response from AI assistant. Please try again.", err)
		return
	}

	reply, err := h.assistant.Reply(r.Context(), req.Message, req.ConversationHistory)
	if err != nil {
		log.Printf("assistant upstream error: %v", err)
		writeProxyError(w, "Failed to get response from AI assistant. Please try again.", err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}
