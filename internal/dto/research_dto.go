package dto

import (
	"time"

	"legal-research-be/pkg/store"
)

type AskRequest struct {
	Question string `json:"question" validate:"required,min=10,max=2000"`
}

type AskResponse struct {
	Answer           string               `json:"answer"`
	SubQuestions     store.QuestionSet    `json:"sub_questions"`
	DocumentMetadata []store.DocumentMeta `json:"document_metadata"`
	ProcessingTime   float64              `json:"processing_time"`
	CacheHit         bool                 `json:"cache_hit"`
	Error            string               `json:"error,omitempty"`
}

// NewAskResponse flattens a pipeline result into the wire shape.
func NewAskResponse(result *store.PipelineResult) *AskResponse {
	return &AskResponse{
		Answer:           result.Answer,
		SubQuestions:     result.SubQuestions,
		DocumentMetadata: result.DocumentMetadata,
		ProcessingTime:   result.ProcessingTime,
		CacheHit:         result.CacheHit,
		Error:            result.Error,
	}
}

type HistoryItemResponse struct {
	Id             string    `json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	SubQuestions   int       `json:"sub_question_count"`
	DocumentCount  int       `json:"document_count"`
	ProcessingTime float64   `json:"processing_time"`
	CacheHit       bool      `json:"cache_hit"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListHistoryResponse struct {
	Items []HistoryItemResponse `json:"items"`
	Total int64                 `json:"total"`
}

// PublishResearchCompletedMessage is the watermill payload the research
// service emits after every fresh (non-cached) pipeline run.
type PublishResearchCompletedMessage struct {
	Question         string               `json:"question"`
	Answer           string               `json:"answer"`
	SubQuestions     store.QuestionSet    `json:"sub_questions"`
	DocumentMetadata []store.DocumentMeta `json:"document_metadata"`
	ProcessingTime   float64              `json:"processing_time"`
	CacheHit         bool                 `json:"cache_hit"`
}
