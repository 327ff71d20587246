package cache

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-research-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// mapKV is the in-memory KV used by tests.
type mapKV struct {
	data   map[string]string
	getErr error
	setErr error
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string]string)}
}

func (m *mapKV) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func sampleResult() *store.PipelineResult {
	answer := "Negligence requires duty, breach, causation and damage."
	sub := "A duty of care arises from the neighbour principle."
	return &store.PipelineResult{
		Answer: answer,
		SubQuestions: store.QuestionSet{Questions: []store.Question{
			{Text: "What establishes a duty of care?", Answer: &sub},
			{Text: "What are the remedies?"},
		}},
		DocumentMetadata: []store.DocumentMeta{
			{ID: "doc-1", Score: 1.0, DocumentID: "case-1", CaseTitle: "Donoghue v Stevenson"},
		},
		ProcessingTime: 12.5,
		CacheHit:       false,
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	kv := newMapKV()
	c := NewResultCache(kv, time.Hour, testLogger())
	ctx := context.Background()

	require.True(t, c.Put(ctx, "What is negligence in tort law?", sampleResult()))

	got := c.Get(ctx, "What is negligence in tort law?")
	require.NotNil(t, got, "expected a cache hit")

	assert.Equal(t, sampleResult().Answer, got.Answer)
	assert.Equal(t, sampleResult().SubQuestions, got.SubQuestions)
	assert.Equal(t, sampleResult().DocumentMetadata, got.DocumentMetadata)

	// A hit is indistinguishable from a fresh run except for these two.
	assert.True(t, got.CacheHit)
	assert.Zero(t, got.ProcessingTime)
}

func TestResultCacheKeyNormalization(t *testing.T) {
	kv := newMapKV()
	c := NewResultCache(kv, time.Hour, testLogger())
	ctx := context.Background()

	c.Put(ctx, "What is Negligence?", sampleResult())

	variants := []string{
		"what is negligence?",
		"  What is Negligence?  ",
		"WHAT IS NEGLIGENCE?",
	}
	for _, q := range variants {
		assert.NotNil(t, c.Get(ctx, q), "variant %q should hit the same entry", q)
	}

	assert.Nil(t, c.Get(ctx, "What is negligence"), "a different question must not collide")
}

func TestResultCacheKeyFormat(t *testing.T) {
	k1 := Key("  Question One  ")
	k2 := Key("question one")
	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "legal_query:")
	// sha256 hex digest after the prefix
	assert.Len(t, k1, len("legal_query:")+64)
}

func TestResultCacheMissOnEmptyStore(t *testing.T) {
	c := NewResultCache(newMapKV(), time.Hour, testLogger())
	assert.Nil(t, c.Get(context.Background(), "never asked"))
}

func TestResultCacheCorruptedEntryIsMiss(t *testing.T) {
	kv := newMapKV()
	c := NewResultCache(kv, time.Hour, testLogger())
	ctx := context.Background()

	kv.data[Key("broken question entry")] = `{"answer": "trunca`
	assert.Nil(t, c.Get(ctx, "broken question entry"))
}

func TestResultCacheBackendErrorsAreSoft(t *testing.T) {
	kv := newMapKV()
	kv.getErr = errors.New("redis: connection refused")
	kv.setErr = errors.New("redis: connection refused")
	c := NewResultCache(kv, time.Hour, testLogger())
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx, "any question"))
	assert.False(t, c.Put(ctx, "any question", sampleResult()))
}

func TestResultCacheDisabledWithoutBackend(t *testing.T) {
	c := NewResultCache(nil, time.Hour, testLogger())
	ctx := context.Background()

	assert.Nil(t, c.Get(ctx, "any question"))
	assert.False(t, c.Put(ctx, "any question", sampleResult()))
}

func TestResultCacheRecoercesStoredSubQuestions(t *testing.T) {
	kv := newMapKV()
	c := NewResultCache(kv, time.Hour, testLogger())
	ctx := context.Background()

	// An entry written by another client with a loose sub_questions shape.
	kv.data[Key("loose shape question")] = `{
		"answer": "an answer",
		"sub_questions": [{"question": "raw list item", "answer": null}],
		"document_metadata": []
	}`

	got := c.Get(ctx, "loose shape question")
	require.NotNil(t, got)
	require.Equal(t, 1, got.SubQuestions.Len())
	assert.Equal(t, "raw list item", got.SubQuestions.Questions[0].Text)
	assert.NotNil(t, got.DocumentMetadata)
}
