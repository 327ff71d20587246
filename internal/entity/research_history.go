package entity

import (
	"time"

	"github.com/google/uuid"

	"legal-research-be/pkg/store"
)

type ResearchHistory struct {
	Id               uuid.UUID
	Question         string
	Answer           string
	SubQuestions     store.QuestionSet
	DocumentMetadata []store.DocumentMeta
	ProcessingTime   float64
	CacheHit         bool
	CreatedAt        time.Time
}
