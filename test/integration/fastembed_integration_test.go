package integration

import (
	"os"
	"testing"

	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/embedding/fastembed"
)

// These tests hit a running FastEmbed sidecar. Start one and point
// FASTEMBED_BASE_URL at it, e.g.:
//
//	FASTEMBED_BASE_URL=http://localhost:8000 go test ./test/integration/
func sidecar(t *testing.T) *fastembed.Provider {
	t.Helper()

	baseURL := os.Getenv("FASTEMBED_BASE_URL")
	if baseURL == "" {
		t.Skip("FASTEMBED_BASE_URL not set, skipping sidecar integration test")
	}
	return fastembed.NewProvider(baseURL, "", "")
}

func TestFastEmbedDenseDimensions(t *testing.T) {
	provider := sidecar(t)

	res, err := provider.Generate("What is a duty of care in negligence?", embedding.TaskRetrievalQuery)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(res.Embedding.Values) != 384 {
		t.Errorf("dense embedding has %d dimensions, want 384 (bge-small)", len(res.Embedding.Values))
	}
}

func TestFastEmbedQueryAndDocumentDiffer(t *testing.T) {
	provider := sidecar(t)

	text := "The neighbour principle establishes when a duty of care arises."

	asQuery, err := provider.Generate(text, embedding.TaskRetrievalQuery)
	if err != nil {
		t.Fatalf("query embedding failed: %v", err)
	}
	asDocument, err := provider.Generate(text, embedding.TaskRetrievalDocument)
	if err != nil {
		t.Fatalf("document embedding failed: %v", err)
	}

	// The query path prepends a retrieval instruction, so the vectors
	// must not be identical.
	same := true
	for i := range asQuery.Embedding.Values {
		if asQuery.Embedding.Values[i] != asDocument.Embedding.Values[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("query and document embeddings are identical, instruction prefix not applied")
	}
}

func TestFastEmbedSparseWithinVocabulary(t *testing.T) {
	provider := sidecar(t)

	sparse, err := provider.GenerateSparse("Occupiers owe lawful visitors a common duty of care.")
	if err != nil {
		t.Fatalf("GenerateSparse failed: %v", err)
	}

	if len(sparse.Indices) == 0 {
		t.Fatal("sparse embedding has no active terms")
	}
	if len(sparse.Indices) != len(sparse.Values) {
		t.Fatalf("indices (%d) and values (%d) are misaligned", len(sparse.Indices), len(sparse.Values))
	}
	for _, idx := range sparse.Indices {
		// bm42 tokenizes over the bert-base vocabulary.
		if idx < 0 || idx >= 30522 {
			t.Errorf("index %d outside the 30522-term vocabulary", idx)
		}
	}
}
