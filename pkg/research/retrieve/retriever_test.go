package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"legal-research-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeSearcher answers per question text, optionally stalling or panicking
// to exercise the concurrency behavior.
type fakeSearcher struct {
	docsByQuery map[string][]store.Document
	errByQuery  map[string]error
	delayQuery  string
	panicQuery  string
}

func (f *fakeSearcher) HybridSearch(ctx context.Context, dense []float32, sparse *store.SparseEmbedding, topK int) ([]store.Document, error) {
	query := queryOf(dense)
	if query == f.panicQuery {
		panic("search backend exploded")
	}
	if query == f.delayQuery {
		time.Sleep(50 * time.Millisecond)
	}
	if err, ok := f.errByQuery[query]; ok {
		return nil, err
	}
	return f.docsByQuery[query], nil
}

// queryOf recovers the question label encoded into the fake dense vector.
func queryOf(dense []float32) string {
	return fmt.Sprintf("q%d", int(dense[0]))
}

type fakeReranker struct {
	err     error
	reverse bool
}

func (f *fakeReranker) Rerank(ctx context.Context, query string, documents []store.Document, topK int) ([]store.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !f.reverse {
		return documents, nil
	}
	out := make([]store.Document, len(documents))
	for i, d := range documents {
		out[len(documents)-1-i] = d
		out[len(documents)-1-i].Score = float64(i + 1)
	}
	return out, nil
}

func questionSet(n int) store.QuestionSet {
	qs := store.QuestionSet{}
	for i := 0; i < n; i++ {
		qs.Questions = append(qs.Questions, store.Question{Text: fmt.Sprintf("q%d", i)})
	}
	return qs
}

func embeddings(n int) ([][]float32, []*store.SparseEmbedding) {
	dense := make([][]float32, n)
	sparse := make([]*store.SparseEmbedding, n)
	for i := 0; i < n; i++ {
		dense[i] = []float32{float32(i)}
		sparse[i] = &store.SparseEmbedding{Indices: []int32{1}, Values: []float32{1}}
	}
	return dense, sparse
}

func doc(title string, score float64) store.Document {
	return store.Document{
		Content: "content of " + title,
		Score:   score,
		Meta:    map[string]interface{}{"case_title": title},
	}
}

func TestRetrievePreservesQuestionOrder(t *testing.T) {
	// The middle unit finishes last; its pair must still land at index 1.
	searcher := &fakeSearcher{
		docsByQuery: map[string][]store.Document{
			"q0": {doc("A", 0.9)},
			"q1": {doc("B", 0.8)},
			"q2": {doc("C", 0.7)},
		},
		delayQuery: "q1",
	}
	r := NewRetriever(searcher, &fakeReranker{}, testLogger())

	qs := questionSet(3)
	dense, sparse := embeddings(3)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	for i, pair := range pairs {
		if pair.Question != fmt.Sprintf("q%d", i) {
			t.Errorf("pair %d holds question %q", i, pair.Question)
		}
	}
	if pairs[1].Documents[0].Meta["case_title"] != "B" {
		t.Errorf("delayed unit lost its documents: %+v", pairs[1].Documents)
	}
}

func TestRetrieveFailedUnitDegradesToEmptyPair(t *testing.T) {
	searcher := &fakeSearcher{
		docsByQuery: map[string][]store.Document{
			"q0": {doc("A", 0.9)},
			"q2": {doc("C", 0.7)},
		},
		errByQuery: map[string]error{"q1": errors.New("connection refused")},
	}
	r := NewRetriever(searcher, &fakeReranker{}, testLogger())

	qs := questionSet(3)
	dense, sparse := embeddings(3)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	if len(pairs[1].Documents) != 0 {
		t.Errorf("failed unit should yield empty documents, got %d", len(pairs[1].Documents))
	}
	if len(pairs[0].Documents) != 1 || len(pairs[2].Documents) != 1 {
		t.Errorf("sibling units must be unaffected: %d, %d", len(pairs[0].Documents), len(pairs[2].Documents))
	}
}

func TestRetrievePanickedUnitIsIsolated(t *testing.T) {
	searcher := &fakeSearcher{
		docsByQuery: map[string][]store.Document{
			"q1": {doc("B", 0.8)},
		},
		panicQuery: "q0",
	}
	r := NewRetriever(searcher, &fakeReranker{}, testLogger())

	qs := questionSet(2)
	dense, sparse := embeddings(2)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	if len(pairs[0].Documents) != 0 {
		t.Errorf("panicked unit should yield empty documents")
	}
	if len(pairs[1].Documents) != 1 {
		t.Errorf("sibling of panicked unit must survive")
	}
}

func TestRetrieveRerankFailureKeepsCandidateOrder(t *testing.T) {
	searcher := &fakeSearcher{
		docsByQuery: map[string][]store.Document{
			"q0": {doc("First", 0.9), doc("Second", 0.8)},
		},
	}
	r := NewRetriever(searcher, &fakeReranker{err: errors.New("reranker down")}, testLogger())

	qs := questionSet(1)
	dense, sparse := embeddings(1)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	docs := pairs[0].Documents
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Meta["case_title"] != "First" {
		t.Errorf("candidate order lost on rerank failure: %+v", docs)
	}
}

func TestRetrieveZeroCandidatesSkipsRerank(t *testing.T) {
	searcher := &fakeSearcher{docsByQuery: map[string][]store.Document{}}
	ranker := &fakeReranker{err: errors.New("must not be called")}
	r := NewRetriever(searcher, ranker, testLogger())

	qs := questionSet(1)
	dense, sparse := embeddings(1)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	if pairs[0].Documents == nil || len(pairs[0].Documents) != 0 {
		t.Errorf("expected empty (non-nil) documents, got %+v", pairs[0].Documents)
	}
}

func TestRetrieveRerankedOrderWins(t *testing.T) {
	searcher := &fakeSearcher{
		docsByQuery: map[string][]store.Document{
			"q0": {doc("First", 0.1), doc("Second", 0.2)},
		},
	}
	r := NewRetriever(searcher, &fakeReranker{reverse: true}, testLogger())

	qs := questionSet(1)
	dense, sparse := embeddings(1)
	pairs := r.Retrieve(context.Background(), qs, dense, sparse, 5)

	if pairs[0].Documents[0].Meta["case_title"] != "Second" {
		t.Errorf("reranker order should win: %+v", pairs[0].Documents)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 50); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 60)
	if got := truncate(long, 50); len(got) != 53 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q", got)
	}
}
