package contract

import (
	"context"

	"legal-research-be/internal/entity"
)

type ResearchHistoryRepository interface {
	Create(ctx context.Context, history *entity.ResearchHistory) error
	FindRecent(ctx context.Context, limit, offset int) ([]*entity.ResearchHistory, error)
	Count(ctx context.Context) (int64, error)
}
