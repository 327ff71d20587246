package entity

import "time"

// ConversationTurn is one question/answer exchange inside a conversation.
type ConversationTurn struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Conversation is the in-memory follow-up context for the chat endpoint.
// It lives in the conversation cache, never in the database.
type Conversation struct {
	ID        string             `json:"id"`
	Turns     []ConversationTurn `json:"turns"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
