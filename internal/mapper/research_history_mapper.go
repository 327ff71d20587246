package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/model"
	"legal-research-be/pkg/store"
)

type ResearchHistoryMapper struct{}

func NewResearchHistoryMapper() *ResearchHistoryMapper {
	return &ResearchHistoryMapper{}
}

func (m *ResearchHistoryMapper) ToEntity(e *model.ResearchHistory) *entity.ResearchHistory {
	if e == nil {
		return nil
	}

	// sub_questions may have been written by any client; re-coerce rather
	// than trusting the stored shape.
	var rawQuestions interface{}
	if len(e.SubQuestions) > 0 {
		_ = json.Unmarshal(e.SubQuestions, &rawQuestions)
	}

	var docMeta []store.DocumentMeta
	if len(e.DocumentMetadata) > 0 {
		_ = json.Unmarshal(e.DocumentMetadata, &docMeta)
	}

	return &entity.ResearchHistory{
		Id:               e.Id,
		Question:         e.Question,
		Answer:           e.Answer,
		SubQuestions:     store.CoerceQuestionSet(rawQuestions),
		DocumentMetadata: docMeta,
		ProcessingTime:   e.ProcessingTime,
		CacheHit:         e.CacheHit,
		CreatedAt:        e.CreatedAt,
	}
}

func (m *ResearchHistoryMapper) ToModel(e *entity.ResearchHistory) *model.ResearchHistory {
	if e == nil {
		return nil
	}

	var subQuestions datatypes.JSON
	if data, err := json.Marshal(e.SubQuestions); err == nil {
		subQuestions = data
	}

	var docMeta datatypes.JSON
	if data, err := json.Marshal(e.DocumentMetadata); err == nil {
		docMeta = data
	}

	return &model.ResearchHistory{
		Id:               e.Id,
		Question:         e.Question,
		Answer:           e.Answer,
		SubQuestions:     subQuestions,
		DocumentMetadata: docMeta,
		ProcessingTime:   e.ProcessingTime,
		CacheHit:         e.CacheHit,
		CreatedAt:        e.CreatedAt,
	}
}

func (m *ResearchHistoryMapper) ToEntities(histories []*model.ResearchHistory) []*entity.ResearchHistory {
	entities := make([]*entity.ResearchHistory, len(histories))
	for i, h := range histories {
		entities[i] = m.ToEntity(h)
	}
	return entities
}
