package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RESEARCH_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and by the
// subscriber when reconstructing events off the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ResearchCompletedType is emitted after every fresh pipeline run.
const ResearchCompletedType = "RESEARCH_COMPLETED"

// NewResearchCompleted builds the event published to the bus when a
// question finishes processing.
func NewResearchCompleted(question, answer string, subQuestions int, processingTime float64) Event {
	return BaseEvent{
		Type: ResearchCompletedType,
		Data: map[string]interface{}{
			"question":        question,
			"answer_length":   len(answer),
			"sub_questions":   subQuestions,
			"processing_time": processingTime,
		},
		OccurredAt: time.Now(),
	}
}
