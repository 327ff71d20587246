package implementation

import (
	"context"

	"gorm.io/gorm"

	"legal-research-be/internal/entity"
	"legal-research-be/internal/mapper"
	"legal-research-be/internal/model"
	"legal-research-be/internal/repository/contract"
)

type ResearchHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResearchHistoryMapper
}

func NewResearchHistoryRepository(db *gorm.DB) contract.ResearchHistoryRepository {
	return &ResearchHistoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewResearchHistoryMapper(),
	}
}

func (r *ResearchHistoryRepositoryImpl) Create(ctx context.Context, history *entity.ResearchHistory) error {
	m := r.mapper.ToModel(history)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*history = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResearchHistoryRepositoryImpl) FindRecent(ctx context.Context, limit, offset int) ([]*entity.ResearchHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []*model.ResearchHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ResearchHistoryRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ResearchHistory{}).Count(&count).Error
	return count, err
}
