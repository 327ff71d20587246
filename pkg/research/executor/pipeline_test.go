package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-research-be/pkg/cache"
	"legal-research-be/pkg/llm"
	"legal-research-be/pkg/research/decompose"
	"legal-research-be/pkg/research/resolve"
	"legal-research-be/pkg/research/retrieve"
	"legal-research-be/pkg/research/synthesize"
	"legal-research-be/pkg/research/validate"
	"legal-research-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// scriptedLLM routes by prompt markers so one fake can serve the
// decomposition, answering and reasoning stages.
type scriptedLLM struct {
	decomposeReply string
	decomposeErr   error
	resolveReply   string
	reasonReply    string
	reasonErr      error
}

func (p *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("chat is not used by the pipeline")
}

func (p *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "only decompose the query"):
		return p.decomposeReply, p.decomposeErr
	case strings.Contains(prompt, "STRICTLY from the provided documents"):
		return p.resolveReply, nil
	case strings.Contains(prompt, "Final Analysis:"):
		return p.reasonReply, p.reasonErr
	default:
		return "", fmt.Errorf("unexpected prompt: %s", prompt[:60])
	}
}

// fakeEmbedder encodes the question index into the dense vector so the
// searcher can answer per question.
type fakeEmbedder struct {
	failDense  bool
	failSparse bool
	panics     bool
}

func (f *fakeEmbedder) Embed(questions store.QuestionSet) ([][]float32, []*store.SparseEmbedding) {
	if f.panics {
		panic("embedding sidecar exploded")
	}
	n := questions.Len()
	var dense [][]float32
	var sparse []*store.SparseEmbedding
	if !f.failDense {
		dense = make([][]float32, n)
		for i := range dense {
			dense[i] = []float32{float32(i)}
		}
	}
	if !f.failSparse {
		sparse = make([]*store.SparseEmbedding, n)
		for i := range sparse {
			sparse[i] = &store.SparseEmbedding{Indices: []int32{1}, Values: []float32{1}}
		}
	}
	return dense, sparse
}

type fakeSearcher struct {
	docsByIndex map[int][]store.Document
}

func (f *fakeSearcher) HybridSearch(ctx context.Context, dense []float32, sparse *store.SparseEmbedding, topK int) ([]store.Document, error) {
	return f.docsByIndex[int(dense[0])], nil
}

type passthroughReranker struct{}

func (passthroughReranker) Rerank(ctx context.Context, query string, documents []store.Document, topK int) ([]store.Document, error) {
	return documents, nil
}

type mapKV struct {
	data map[string]string
}

func newMapKV() *mapKV { return &mapKV{data: make(map[string]string)} }

func (m *mapKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

const threeQuestionDecomposition = `{"questions": [
	{"question": "What statute governs this?"},
	{"question": "What do the leading cases hold?"},
	{"question": "What are the available remedies?"}
]}`

const threeQuestionResolution = `{"questions": [
	{"question": "What statute governs this?", "answer": "The Act of 1957 governs."},
	{"question": "What do the leading cases hold?", "answer": "The cases require a duty of care."},
	{"question": "What are the available remedies?", "answer": "Damages are available."}
]}`

func docWith(title, id string, score float64) store.Document {
	return store.Document{
		Content: "content of " + title,
		Score:   score,
		Meta:    map[string]interface{}{"case_title": title, "document_id": id},
	}
}

func buildPipeline(provider llm.LLMProvider, embedder Embedder, searcher retrieve.Searcher, kv cache.KV) *Pipeline {
	lg := testLogger()
	return NewPipeline(
		decompose.NewDecomposer(provider, lg),
		validate.NewValidator(lg),
		embedder,
		retrieve.NewRetriever(searcher, passthroughReranker{}, lg),
		resolve.NewResolver(provider, lg),
		synthesize.NewSynthesizer(provider, lg),
		cache.NewResultCache(kv, time.Hour, lg),
		5,
		lg,
	)
}

func TestExecuteFullRun(t *testing.T) {
	provider := &scriptedLLM{
		decomposeReply: threeQuestionDecomposition,
		resolveReply:   threeQuestionResolution,
		reasonReply:    "Final synthesized analysis.",
	}
	searcher := &fakeSearcher{docsByIndex: map[int][]store.Document{
		0: {docWith("Act 1957", "leg-1", 0.9)},
		1: {docWith("Case A", "case-a", 0.9), docWith("Case B", "case-b", 0.8), docWith("Case C", "case-c", 0.7), docWith("Case D", "case-d", 0.6)},
		2: {docWith("Remedies Review", "art-1", 0.9)},
	}}

	p := buildPipeline(provider, &fakeEmbedder{}, searcher, newMapKV())
	result := p.Execute(context.Background(), "What is the occupier's liability for visitor injuries?")

	require.NotNil(t, result)
	assert.Equal(t, "Final synthesized analysis.", result.Answer)
	assert.False(t, result.CacheHit)
	assert.Empty(t, result.Error)
	assert.Greater(t, result.ProcessingTime, 0.0)

	require.Equal(t, 3, result.SubQuestions.Len())
	for i, q := range result.SubQuestions.Questions {
		require.NotNilf(t, q.Answer, "sub-question %d should carry an answer", i)
	}

	// 1 + 3 (capped from 4) + 1 documents
	require.Len(t, result.DocumentMetadata, 5)

	first := result.DocumentMetadata[0]
	assert.Equal(t, "doc-1", first.ID)
	assert.Equal(t, 1.0, first.Score)
	assert.Equal(t, "leg-1", first.DocumentID)
	assert.Equal(t, "Act 1957", first.CaseTitle)

	// Synthetic scores restart per pair: 1.0, 0.9, 0.8.
	assert.Equal(t, 1.0, result.DocumentMetadata[1].Score)
	assert.Equal(t, 0.9, result.DocumentMetadata[2].Score)
	assert.Equal(t, 0.8, result.DocumentMetadata[3].Score)
	assert.Equal(t, "doc-5", result.DocumentMetadata[4].ID)
}

func TestExecuteCachesAndReplays(t *testing.T) {
	provider := &scriptedLLM{
		decomposeReply: threeQuestionDecomposition,
		resolveReply:   threeQuestionResolution,
		reasonReply:    "Final synthesized analysis.",
	}
	searcher := &fakeSearcher{docsByIndex: map[int][]store.Document{}}
	kv := newMapKV()
	p := buildPipeline(provider, &fakeEmbedder{}, searcher, kv)

	first := p.Execute(context.Background(), "Cacheable legal question?")
	require.False(t, first.CacheHit)
	require.Len(t, kv.data, 1)

	// Break the provider: a replay must not touch any stage.
	provider.decomposeErr = errors.New("must not be called")
	provider.reasonErr = errors.New("must not be called")

	second := p.Execute(context.Background(), "  CACHEABLE legal question?  ")
	require.NotNil(t, second)
	assert.True(t, second.CacheHit)
	assert.Zero(t, second.ProcessingTime)
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.SubQuestions, second.SubQuestions)
}

func TestExecuteDecompositionFailureFallsBackToOriginal(t *testing.T) {
	provider := &scriptedLLM{
		decomposeErr: errors.New("model unavailable"),
		resolveReply: `{"questions": [{"question": "What is the statute of limitations for contract claims?", "answer": "Six years."}]}`,
		reasonReply:  "Answer from the single question.",
	}
	searcher := &fakeSearcher{docsByIndex: map[int][]store.Document{
		0: {docWith("Limitation Act", "leg-2", 0.9)},
	}}

	p := buildPipeline(provider, &fakeEmbedder{}, searcher, newMapKV())
	result := p.Execute(context.Background(), "What is the statute of limitations for contract claims?")

	require.Equal(t, 1, result.SubQuestions.Len())
	assert.Equal(t, "What is the statute of limitations for contract claims?", result.SubQuestions.Questions[0].Text)
	assert.Equal(t, "Answer from the single question.", result.Answer)
}

func TestExecuteEmbeddingFailureSkipsRetrieval(t *testing.T) {
	provider := &scriptedLLM{
		decomposeReply: threeQuestionDecomposition,
		resolveReply:   threeQuestionResolution,
		reasonReply:    "Answer without corpus grounding.",
	}
	// A searcher that would fail loudly if retrieval ran anyway.
	searcher := &fakeSearcher{docsByIndex: nil}

	for _, emb := range []*fakeEmbedder{{failDense: true}, {failSparse: true}} {
		p := buildPipeline(provider, emb, searcher, newMapKV())
		result := p.Execute(context.Background(), "A question whose embeddings fail?")

		assert.Equal(t, "Answer without corpus grounding.", result.Answer)
		assert.Empty(t, result.DocumentMetadata)
		assert.Equal(t, 3, result.SubQuestions.Len())
	}
}

func TestExecuteResolutionFailureKeepsValidatedQuestions(t *testing.T) {
	provider := &scriptedLLM{
		decomposeReply: threeQuestionDecomposition,
		resolveReply:   "I cannot produce JSON today.",
		reasonReply:    "Synthesis over unanswered questions.",
	}
	searcher := &fakeSearcher{docsByIndex: map[int][]store.Document{}}

	p := buildPipeline(provider, &fakeEmbedder{}, searcher, newMapKV())
	result := p.Execute(context.Background(), "A question whose resolution fails?")

	require.Equal(t, 3, result.SubQuestions.Len())
	for _, q := range result.SubQuestions.Questions {
		assert.Nil(t, q.Answer)
	}
	assert.Equal(t, "Synthesis over unanswered questions.", result.Answer)
}

func TestExecuteSynthesisFailureYieldsFallbackAnswer(t *testing.T) {
	provider := &scriptedLLM{
		decomposeReply: threeQuestionDecomposition,
		resolveReply:   threeQuestionResolution,
		reasonErr:      errors.New("model unavailable"),
	}
	searcher := &fakeSearcher{docsByIndex: map[int][]store.Document{}}

	p := buildPipeline(provider, &fakeEmbedder{}, searcher, newMapKV())
	result := p.Execute(context.Background(), "A question whose synthesis fails?")

	assert.Equal(t, synthesize.FallbackAnswer, result.Answer)
	assert.Equal(t, 3, result.SubQuestions.Len())
}

func TestExecutePanicBecomesApologyResult(t *testing.T) {
	provider := &scriptedLLM{decomposeReply: threeQuestionDecomposition}
	p := buildPipeline(provider, &fakeEmbedder{panics: true}, &fakeSearcher{}, newMapKV())

	result := p.Execute(context.Background(), "A question that blows up?")

	require.NotNil(t, result)
	assert.Contains(t, result.Answer, "An error occurred while processing your question:")
	assert.Contains(t, result.Error, "embedding sidecar exploded")
	assert.False(t, result.CacheHit)
	assert.NotNil(t, result.SubQuestions.Questions)
	assert.NotNil(t, result.DocumentMetadata)
}

func TestExtractDocumentMetadataPlaceholderTitle(t *testing.T) {
	pairs := []store.QuestionContext{{
		Question: "What are the elements of adverse possession in common law?",
		Documents: []store.Document{{
			Content: "untitled content",
			Meta:    map[string]interface{}{},
		}},
	}}

	metadata := extractDocumentMetadata(pairs)

	require.Len(t, metadata, 1)
	assert.Equal(t, "unknown-1", metadata[0].DocumentID)
	assert.Equal(t, "Result for: What are the elements of adver...", metadata[0].CaseTitle)
}

func TestExtractDocumentMetadataPlaceholderShortQuestion(t *testing.T) {
	pairs := []store.QuestionContext{{
		Question: "What is estoppel?",
		Documents: []store.Document{{
			Content: "untitled content",
			Meta:    map[string]interface{}{},
		}},
	}}

	metadata := extractDocumentMetadata(pairs)

	require.Len(t, metadata, 1)
	// The ellipsis is always appended, even when nothing was cut.
	assert.Equal(t, "Result for: What is estoppel?...", metadata[0].CaseTitle)
}

func TestExtractDocumentMetadataTitlePrecedence(t *testing.T) {
	pairs := []store.QuestionContext{{
		Question: "q",
		Documents: []store.Document{
			{Meta: map[string]interface{}{"article_title": "An Article", "document_id": "a-1"}},
			{Meta: map[string]interface{}{"legislation_title": "An Act", "document_id": "l-1"}},
		},
	}}

	metadata := extractDocumentMetadata(pairs)

	require.Len(t, metadata, 2)
	assert.Equal(t, "An Article", metadata[0].ArticleTitle)
	assert.Empty(t, metadata[0].CaseTitle)
	assert.Equal(t, "An Act", metadata[1].LegislationTitle)
}
