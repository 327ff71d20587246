package dto

import "legal-research-be/internal/entity"

type ChatRequest struct {
	ConversationId string `json:"conversation_id"`
	Message        string `json:"message" validate:"required,min=1,max=2000"`
}

type ChatResponse struct {
	ConversationId string `json:"conversation_id"`
	Answer         string `json:"answer"`
}

type ChatHistoryResponse struct {
	ConversationId string                    `json:"conversation_id"`
	Turns          []entity.ConversationTurn `json:"turns"`
}

type ExportRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}
