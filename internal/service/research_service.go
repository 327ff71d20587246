package service

import (
	"context"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/contract"
	"legal-research-be/pkg/events"
	pkgNats "legal-research-be/pkg/nats"
	"legal-research-be/pkg/store"
)

// ResearchPipeline is the slice of the executor the service layer depends
// on. Execute never errors; failures surface inside the result.
type ResearchPipeline interface {
	Execute(ctx context.Context, question string) *store.PipelineResult
}

type IResearchService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	History(ctx context.Context, limit, offset int) (*dto.ListHistoryResponse, error)
}

type researchService struct {
	pipeline    ResearchPipeline
	historyRepo contract.ResearchHistoryRepository
	publisher   IPublisherService
	natsPub     *pkgNats.Publisher
	logger      logger.ILogger
}

func NewResearchService(
	pipeline ResearchPipeline,
	historyRepo contract.ResearchHistoryRepository,
	publisher IPublisherService,
	natsPub *pkgNats.Publisher,
	log logger.ILogger,
) IResearchService {
	return &researchService{
		pipeline:    pipeline,
		historyRepo: historyRepo,
		publisher:   publisher,
		natsPub:     natsPub,
		logger:      log,
	}
}

func (s *researchService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	result := s.pipeline.Execute(ctx, req.Question)

	// Cached answers were already recorded and announced on their first run.
	if !result.CacheHit {
		s.announce(ctx, req.Question, result.Answer, result.SubQuestions.Len(), result.ProcessingTime)

		if err := s.publisher.Publish(dto.PublishResearchCompletedMessage{
			Question:         req.Question,
			Answer:           result.Answer,
			SubQuestions:     result.SubQuestions,
			DocumentMetadata: result.DocumentMetadata,
			ProcessingTime:   result.ProcessingTime,
			CacheHit:         result.CacheHit,
		}); err != nil {
			s.logger.Warn("ResearchService", "Failed to publish research completed message", map[string]interface{}{"error": err.Error()})
		}
	}

	return dto.NewAskResponse(result), nil
}

// announce emits the cross-service event; NATS being down never fails a
// request.
func (s *researchService) announce(ctx context.Context, question, answer string, subQuestions int, processingTime float64) {
	if s.natsPub == nil {
		return
	}
	event := events.NewResearchCompleted(question, answer, subQuestions, processingTime)
	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("ResearchService", "Failed to publish event to NATS", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}

func (s *researchService) History(ctx context.Context, limit, offset int) (*dto.ListHistoryResponse, error) {
	histories, err := s.historyRepo.FindRecent(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.historyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.HistoryItemResponse, len(histories))
	for i, h := range histories {
		items[i] = dto.HistoryItemResponse{
			Id:             h.Id.String(),
			Question:       h.Question,
			Answer:         h.Answer,
			SubQuestions:   h.SubQuestions.Len(),
			DocumentCount:  len(h.DocumentMetadata),
			ProcessingTime: h.ProcessingTime,
			CacheHit:       h.CacheHit,
			CreatedAt:      h.CreatedAt,
		}
	}

	return &dto.ListHistoryResponse{
		Items: items,
		Total: total,
	}, nil
}
