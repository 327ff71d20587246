package embedder

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeDense struct {
	failOn string
}

func (f *fakeDense) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("dense backend failure")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

type fakeSparse struct {
	failOn string
}

func (f *fakeSparse) GenerateSparse(text string) (*store.SparseEmbedding, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("sparse backend failure")
	}
	return &store.SparseEmbedding{
		Indices: []int32{int32(len(text))},
		Values:  []float32{1.0},
	}, nil
}

func questions(texts ...string) store.QuestionSet {
	qs := store.QuestionSet{}
	for _, t := range texts {
		qs.Questions = append(qs.Questions, store.Question{Text: t})
	}
	return qs
}

func TestEmbedAlignsByIndex(t *testing.T) {
	e := NewDualEmbedder(&fakeDense{}, &fakeSparse{}, testLogger())

	qs := questions("a", "bb", "ccc")
	dense, sparse := e.Embed(qs)

	if len(dense) != 3 || len(sparse) != 3 {
		t.Fatalf("expected 3+3 embeddings, got %d dense, %d sparse", len(dense), len(sparse))
	}
	// The fakes encode the question length, so alignment is checkable.
	for i, want := range []float32{1, 2, 3} {
		if dense[i][0] != want {
			t.Errorf("dense[%d] = %v, want %v", i, dense[i][0], want)
		}
		if sparse[i].Indices[0] != int32(want) {
			t.Errorf("sparse[%d] = %v, want %v", i, sparse[i].Indices[0], int32(want))
		}
	}
}

func TestEmbedDenseFailureEmptiesOnlyDense(t *testing.T) {
	e := NewDualEmbedder(&fakeDense{failOn: "bb"}, &fakeSparse{}, testLogger())

	dense, sparse := e.Embed(questions("a", "bb", "ccc"))

	if dense != nil {
		t.Errorf("a single dense failure must empty the whole dense list, got %v", dense)
	}
	if len(sparse) != 3 {
		t.Errorf("sparse side must be unaffected, got %d", len(sparse))
	}
}

func TestEmbedSparseFailureEmptiesOnlySparse(t *testing.T) {
	e := NewDualEmbedder(&fakeDense{}, &fakeSparse{failOn: "ccc"}, testLogger())

	dense, sparse := e.Embed(questions("a", "bb", "ccc"))

	if len(dense) != 3 {
		t.Errorf("dense side must be unaffected, got %d", len(dense))
	}
	if sparse != nil {
		t.Errorf("a single sparse failure must empty the whole sparse list, got %v", sparse)
	}
}

func TestEmbedEmptyQuestionSet(t *testing.T) {
	e := NewDualEmbedder(&fakeDense{}, &fakeSparse{}, testLogger())

	dense, sparse := e.Embed(store.QuestionSet{})

	if len(dense) != 0 || len(sparse) != 0 {
		t.Errorf("expected empty lists, got %d dense, %d sparse", len(dense), len(sparse))
	}
}
