package models

// ChatPart is one text fragment of a conversation turn.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatTurn is one role-tagged message in a chat exchange. Roles follow the
// upstream wire format: "user" or "model". Turns are round-tripped verbatim
// between client and server on every call; the server keeps no history.
type ChatTurn struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// UserTurn and ModelTurn build single-part turns.
func UserTurn(text string) ChatTurn {
	return ChatTurn{Role: "user", Parts: []ChatPart{{Text: text}}}
}

func ModelTurn(text string) ChatTurn {
	return ChatTurn{Role: "model", Parts: []ChatPart{{Text: text}}}
}

// ChatRequest is the payload sent to the assistant endpoint.
type ChatRequest struct {
	Message             string     `json:"message"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}

// ChatReply carries the assistant's answer plus the full updated history the
// client must resend on its next call.
type ChatReply struct {
	Response            string     `json:"response"`
	ConversationHistory []ChatTurn `json:"conversationHistory"`
}
