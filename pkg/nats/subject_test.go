package nats

import (
	"strings"
	"testing"

	"legal-research-be/pkg/events"
)

func TestSubjectForResearchCompleted(t *testing.T) {
	subject := SubjectFor(events.ResearchCompletedType)

	if subject != "events.RESEARCH_COMPLETED" {
		t.Errorf("subject = %q, want events.RESEARCH_COMPLETED", subject)
	}
	if !strings.HasPrefix(subject, subjectPrefix) {
		t.Errorf("subject %q must live under the stream's subject space %q>", subject, subjectPrefix)
	}
	// The subscriber recovers the event type by trimming the prefix.
	if got := strings.TrimPrefix(subject, subjectPrefix); got != events.ResearchCompletedType {
		t.Errorf("round trip gave %q, want %q", got, events.ResearchCompletedType)
	}
}
