package entity

import (
	"time"

	"github.com/google/uuid"

	"legal-research-be/pkg/store"
)

type LegalDocument struct {
	Id              uuid.UUID
	DocumentId      string
	Content         string
	Metadata        map[string]interface{}
	DenseEmbedding  []float32
	SparseEmbedding *store.SparseEmbedding
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
