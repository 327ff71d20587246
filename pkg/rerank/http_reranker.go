package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"legal-research-be/pkg/store"
)

// HTTPReranker calls a cross-encoder rerank service with a Jina/Cohere
// compatible API shape. The ms-marco MiniLM model runs in the same sidecar
// as the FastEmbed embedders.
type HTTPReranker struct {
	baseURL string
	model   string
	client  *http.Client
}

var _ Reranker = &HTTPReranker{}

func NewHTTPReranker(baseURL, model string) *HTTPReranker {
	if model == "" {
		model = "Xenova/ms-marco-MiniLM-L-6-v2"
	}
	return &HTTPReranker{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (r *HTTPReranker) Rerank(ctx context.Context, query string, documents []store.Document, topK int) ([]store.Document, error) {
	if len(documents) == 0 {
		return nil, nil
	}

	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Content
	}

	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: texts,
		TopN:      topK,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.baseURL+"/v1/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(bodyBytes, &rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if rerankResp.Error != nil {
		return nil, fmt.Errorf("rerank api returned error: %s", rerankResp.Error.Message)
	}

	ranked := make([]store.Document, 0, len(rerankResp.Results))
	for _, result := range rerankResp.Results {
		if result.Index < 0 || result.Index >= len(documents) {
			continue
		}
		doc := documents[result.Index]
		doc.Score = result.RelevanceScore
		ranked = append(ranked, doc)
	}

	if len(ranked) > topK && topK > 0 {
		ranked = ranked[:topK]
	}

	return ranked, nil
}
