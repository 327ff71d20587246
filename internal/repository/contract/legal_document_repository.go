package contract

import (
	"context"

	"github.com/google/uuid"

	"legal-research-be/internal/entity"
	"legal-research-be/pkg/store"
)

type LegalDocumentRepository interface {
	Create(ctx context.Context, doc *entity.LegalDocument) error
	CreateBulk(ctx context.Context, docs []*entity.LegalDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByDocumentId(ctx context.Context, documentId string) (*entity.LegalDocument, error)
	Count(ctx context.Context) (int64, error)

	// HybridSearch runs dense and sparse similarity queries and fuses the
	// two rankings into a single candidate list of at most topK documents.
	HybridSearch(ctx context.Context, dense []float32, sparse *store.SparseEmbedding, topK int) ([]store.Document, error)
}
