package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"

	"legal-research-be/internal/dto"
	"legal-research-be/pkg/store"
)

func assertAcked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Acked():
	default:
		t.Error("expected message to be acked")
	}
}

func assertNacked(t *testing.T, msg *message.Message) {
	t.Helper()
	select {
	case <-msg.Nacked():
	default:
		t.Error("expected message to be nacked")
	}
}

func completedPayload(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(dto.PublishResearchCompletedMessage{
		Question:       "What is negligence in tort law?",
		Answer:         "Negligence requires duty, breach, causation and damage.",
		SubQuestions:   store.QuestionSet{Questions: []store.Question{{Text: "What establishes a duty of care?"}}},
		ProcessingTime: 1.2,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func TestProcessMessagePersistsHistory(t *testing.T) {
	repo := &fakeHistoryRepo{}
	rec := &recordingLogger{}
	cs := NewConsumerService(nil, "research-topic", repo, rec).(*consumerService)

	msg := message.NewMessage("1", completedPayload(t))
	cs.processMessage(context.Background(), msg)

	assertAcked(t, msg)
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(repo.created))
	}
	if repo.created[0].Question != "What is negligence in tort law?" {
		t.Errorf("unexpected question %q", repo.created[0].Question)
	}
	if got := rec.count("info", "ConsumerService"); got != 1 {
		t.Errorf("expected 1 info entry through the service logger, got %d", got)
	}
}

func TestProcessMessageAcksInvalidPayload(t *testing.T) {
	repo := &fakeHistoryRepo{}
	rec := &recordingLogger{}
	cs := NewConsumerService(nil, "research-topic", repo, rec).(*consumerService)

	msg := message.NewMessage("1", []byte(`{"question": truncated`))
	cs.processMessage(context.Background(), msg)

	// Invalid payloads can never succeed; retrying them would loop forever.
	assertAcked(t, msg)
	if len(repo.created) != 0 {
		t.Errorf("invalid payload must not be persisted")
	}
	if got := rec.count("error", "ConsumerService"); got != 1 {
		t.Errorf("expected 1 error entry through the service logger, got %d", got)
	}
}

func TestProcessMessageNacksOnRepositoryError(t *testing.T) {
	repo := &fakeHistoryRepo{createErr: errors.New("connection reset")}
	rec := &recordingLogger{}
	cs := NewConsumerService(nil, "research-topic", repo, rec).(*consumerService)

	msg := message.NewMessage("1", completedPayload(t))
	cs.processMessage(context.Background(), msg)

	assertNacked(t, msg)
	if got := rec.count("error", "ConsumerService"); got != 1 {
		t.Errorf("expected 1 error entry through the service logger, got %d", got)
	}
}
