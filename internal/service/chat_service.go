package service

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"legal-research-be/internal/dto"
	"legal-research-be/internal/entity"
	"legal-research-be/internal/pkg/logger"
	"legal-research-be/internal/repository/memory"
	"legal-research-be/pkg/llm"
)

type IChatService interface {
	Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(conversationId string) (*dto.ChatHistoryResponse, error)
}

// chatService layers conversational follow-up on top of the research
// pipeline. The opening message of a conversation gets the full
// decompose/retrieve/synthesize treatment; follow-ups reuse the earlier
// turns as context for a plain chat call.
type chatService struct {
	pipeline         ResearchPipeline
	conversationRepo *memory.ConversationRepository
	llmProvider      llm.LLMProvider
	logger           logger.ILogger
}

func NewChatService(
	pipeline ResearchPipeline,
	conversationRepo *memory.ConversationRepository,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		pipeline:         pipeline,
		conversationRepo: conversationRepo,
		llmProvider:      llmProvider,
		logger:           log,
	}
}

func (s *chatService) Send(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	conversation, found := s.lookup(req.ConversationId)

	var answer string
	if !found || len(conversation.Turns) == 0 {
		// Fresh conversation: full research run.
		result := s.pipeline.Execute(ctx, req.Message)
		answer = result.Answer
	} else {
		reply, err := s.llmProvider.Chat(ctx, s.buildHistory(conversation, req.Message))
		if err != nil {
			s.logger.Error("ChatService", "Follow-up generation failed", map[string]interface{}{"conversation_id": conversation.ID, "error": err.Error()})
			return nil, err
		}
		answer = reply
	}

	now := time.Now()
	conversation.Turns = append(conversation.Turns, entity.ConversationTurn{
		Question: req.Message,
		Answer:   answer,
		AskedAt:  now,
	})
	conversation.UpdatedAt = now
	s.conversationRepo.Save(conversation)

	return &dto.ChatResponse{
		ConversationId: conversation.ID,
		Answer:         answer,
	}, nil
}

func (s *chatService) History(conversationId string) (*dto.ChatHistoryResponse, error) {
	conversation, found := s.conversationRepo.Get(conversationId)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "Conversation not found or expired")
	}

	return &dto.ChatHistoryResponse{
		ConversationId: conversation.ID,
		Turns:          conversation.Turns,
	}, nil
}

func (s *chatService) lookup(conversationId string) (*entity.Conversation, bool) {
	if conversationId != "" {
		if conversation, found := s.conversationRepo.Get(conversationId); found {
			return conversation, true
		}
	}

	now := time.Now()
	return &entity.Conversation{
		ID:        uuid.New().String(),
		Turns:     []entity.ConversationTurn{},
		CreatedAt: now,
		UpdatedAt: now,
	}, false
}

func (s *chatService) buildHistory(conversation *entity.Conversation, message string) []llm.Message {
	history := []llm.Message{{
		Role:    "system",
		Content: "You are a legal research assistant. Answer follow-up questions using the earlier conversation; say so plainly when the conversation does not contain the answer.",
	}}

	for _, turn := range conversation.Turns {
		history = append(history,
			llm.Message{Role: "user", Content: turn.Question},
			llm.Message{Role: "assistant", Content: turn.Answer},
		)
	}

	return append(history, llm.Message{Role: "user", Content: message})
}
