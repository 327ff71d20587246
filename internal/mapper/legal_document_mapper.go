package mapper

import (
	"encoding/json"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/model"
	"legal-research-be/pkg/store"
)

// SparseDimensions is the vocabulary size of the bm42 sparse embedder.
const SparseDimensions = 30522

type LegalDocumentMapper struct{}

func NewLegalDocumentMapper() *LegalDocumentMapper {
	return &LegalDocumentMapper{}
}

func (m *LegalDocumentMapper) ToEntity(e *model.LegalDocument) *entity.LegalDocument {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Best effort: documents with unreadable metadata still surface.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.LegalDocument{
		Id:              e.Id,
		DocumentId:      e.DocumentId,
		Content:         e.Content,
		Metadata:        metadata,
		DenseEmbedding:  e.DenseEmbedding.Slice(),
		SparseEmbedding: sparseToStore(e.SparseEmbedding),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *LegalDocumentMapper) ToModel(e *entity.LegalDocument) *model.LegalDocument {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		if data, err := json.Marshal(e.Metadata); err == nil {
			metadata = data
		}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.LegalDocument{
		Id:              e.Id,
		DocumentId:      e.DocumentId,
		Content:         e.Content,
		Metadata:        metadata,
		DenseEmbedding:  pgvector.NewVector(e.DenseEmbedding),
		SparseEmbedding: SparseToVector(e.SparseEmbedding),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

// SparseToVector converts the pipeline's sparse embedding into the pgvector
// wire type. Also used by the repository to build query vectors.
func SparseToVector(s *store.SparseEmbedding) pgvector.SparseVector {
	if s == nil {
		return pgvector.NewSparseVectorFromMap(map[int32]float32{}, SparseDimensions)
	}
	elements := make(map[int32]float32, len(s.Indices))
	for i, idx := range s.Indices {
		if i < len(s.Values) {
			elements[idx] = s.Values[i]
		}
	}
	return pgvector.NewSparseVectorFromMap(elements, SparseDimensions)
}

func sparseToStore(v pgvector.SparseVector) *store.SparseEmbedding {
	indices := v.Indices()
	values := v.Values()
	if len(indices) == 0 {
		return nil
	}
	return &store.SparseEmbedding{
		Indices: indices,
		Values:  values,
	}
}
