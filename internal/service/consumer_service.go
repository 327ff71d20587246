package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/contract"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists completed research runs off the request path.
// History writes must never slow down or fail the answering endpoint.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	historyRepo contract.ResearchHistoryRepository
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	historyRepo contract.ResearchHistoryRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		historyRepo: historyRepo,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishResearchCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal research completed message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	history := &entity.ResearchHistory{
		Id:               uuid.New(),
		Question:         payload.Question,
		Answer:           payload.Answer,
		SubQuestions:     payload.SubQuestions,
		DocumentMetadata: payload.DocumentMetadata,
		ProcessingTime:   payload.ProcessingTime,
		CacheHit:         payload.CacheHit,
		CreatedAt:        time.Now(),
	}

	if err := cs.historyRepo.Create(ctx, history); err != nil {
		cs.logger.Error("ConsumerService", "Failed to persist research history", map[string]interface{}{"error": err.Error()})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.logger.Info("ConsumerService", "Research history recorded", map[string]interface{}{"id": history.Id.String()})
	msg.Ack()
}
