package implementation

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/mapper"
	"legal-research-be/internal/model"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/pkg/store"
)

// candidateFactor controls how many rows each similarity query fetches
// before fusion; fetching more than topK keeps fusion meaningful when the
// two rankings disagree.
const candidateFactor = 4

type LegalDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LegalDocumentMapper
}

func NewLegalDocumentRepository(db *gorm.DB) contract.LegalDocumentRepository {
	return &LegalDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewLegalDocumentMapper(),
	}
}

func (r *LegalDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.LegalDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *LegalDocumentRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.LegalDocument) error {
	models := make([]*model.LegalDocument, len(docs))
	for i, d := range docs {
		models[i] = r.mapper.ToModel(d)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*docs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *LegalDocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LegalDocument{}, id).Error
}

func (r *LegalDocumentRepositoryImpl) FindByDocumentId(ctx context.Context, documentId string) (*entity.LegalDocument, error) {
	var m model.LegalDocument
	err := r.db.WithContext(ctx).Where("document_id = ?", documentId).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LegalDocumentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LegalDocument{}).Count(&count).Error
	return count, err
}

func (r *LegalDocumentRepositoryImpl) HybridSearch(ctx context.Context, dense []float32, sparse *store.SparseEmbedding, topK int) ([]store.Document, error) {
	if topK <= 0 {
		topK = 5
	}
	fetchK := topK * candidateFactor

	denseRanked, err := r.searchDense(ctx, dense, fetchK)
	if err != nil {
		return nil, err
	}

	sparseRanked, err := r.searchSparse(ctx, sparse, fetchK)
	if err != nil {
		return nil, err
	}

	fused := fuseReciprocalRank(denseRanked, sparseRanked, topK)

	documents := make([]store.Document, len(fused))
	for i, m := range fused {
		documents[i] = r.toDocument(m.doc, m.score)
	}
	return documents, nil
}

func (r *LegalDocumentRepositoryImpl) searchDense(ctx context.Context, dense []float32, limit int) ([]*model.LegalDocument, error) {
	var models []*model.LegalDocument

	// pgvector cosine distance: dense_embedding <=> query
	err := r.db.WithContext(ctx).
		Where("legal_documents.deleted_at IS NULL").
		Order(gorm.Expr("dense_embedding <=> ?", pgvector.NewVector(dense))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}
	return models, nil
}

func (r *LegalDocumentRepositoryImpl) searchSparse(ctx context.Context, sparse *store.SparseEmbedding, limit int) ([]*model.LegalDocument, error) {
	var models []*model.LegalDocument

	// sparsevec supports the same cosine distance operator
	err := r.db.WithContext(ctx).
		Where("legal_documents.deleted_at IS NULL").
		Order(gorm.Expr("sparse_embedding <=> ?", mapper.SparseToVector(sparse))).
		Limit(limit).
		Find(&models).Error

	if err != nil {
		return nil, err
	}
	return models, nil
}

func (r *LegalDocumentRepositoryImpl) toDocument(m *model.LegalDocument, score float64) store.Document {
	e := r.mapper.ToEntity(m)

	meta := e.Metadata
	if meta == nil {
		meta = make(map[string]interface{})
	}
	if e.DocumentId != "" {
		meta["document_id"] = e.DocumentId
	}

	return store.Document{
		ID:      e.Id.String(),
		Content: e.Content,
		Score:   score,
		Meta:    meta,
	}
}

// fusedDocument pairs a row with its reciprocal-rank-fusion score.
type fusedDocument struct {
	doc   *model.LegalDocument
	score float64
}

// rrfK is the standard smoothing constant from the RRF paper; it keeps the
// top-ranked item from dominating the fused score.
const rrfK = 60

// fuseReciprocalRank merges two ranked lists with reciprocal rank fusion:
// score(d) = sum over lists of 1/(rrfK + rank). Documents present in both
// lists score higher than documents present in one. Ties keep the order the
// document first appeared in (dense list before sparse).
func fuseReciprocalRank(denseRanked, sparseRanked []*model.LegalDocument, topK int) []fusedDocument {
	type accum struct {
		doc   *model.LegalDocument
		score float64
		seen  int // arrival order, for deterministic ties
	}

	scores := make(map[uuid.UUID]*accum)
	arrival := make([]*accum, 0, len(denseRanked)+len(sparseRanked))

	addList := func(ranked []*model.LegalDocument) {
		for rank, doc := range ranked {
			a, ok := scores[doc.Id]
			if !ok {
				a = &accum{doc: doc, seen: len(arrival)}
				scores[doc.Id] = a
				arrival = append(arrival, a)
			}
			a.score += 1.0 / float64(rrfK+rank+1)
		}
	}
	addList(denseRanked)
	addList(sparseRanked)

	sort.SliceStable(arrival, func(i, j int) bool {
		if arrival[i].score != arrival[j].score {
			return arrival[i].score > arrival[j].score
		}
		return arrival[i].seen < arrival[j].seen
	})

	fused := make([]fusedDocument, 0, len(arrival))
	for _, a := range arrival {
		fused = append(fused, fusedDocument{doc: a.doc, score: a.score})
		if len(fused) == topK {
			break
		}
	}
	return fused
}
