package fastembed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"legal-research-be/pkg/embedding"
	"legal-research-be/pkg/store"
)

// Provider talks to a FastEmbed sidecar service that exposes both the
// dense (bge-small) and sparse (bm42) models over HTTP. Loading the models
// in a separate process keeps their warm-up cost out of this binary.
type Provider struct {
	baseURL     string
	denseModel  string
	sparseModel string
	client      *http.Client
}

var _ embedding.DenseProvider = &Provider{}
var _ embedding.SparseProvider = &Provider{}

func NewProvider(baseURL, denseModel, sparseModel string) *Provider {
	if denseModel == "" {
		denseModel = "BAAI/bge-small-en-v1.5"
	}
	if sparseModel == "" {
		sparseModel = "Qdrant/bm42-all-minilm-l6-v2-attentions"
	}
	return &Provider{
		baseURL:     baseURL,
		denseModel:  denseModel,
		sparseModel: sparseModel,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type denseResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type sparseResponse struct {
	Data []struct {
		Index   int       `json:"index"`
		Indices []int32   `json:"indices"`
		Values  []float32 `json:"values"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Provider) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	input := text
	if taskType == embedding.TaskRetrievalQuery {
		// bge models embed queries with an instruction prefix
		input = "Represent this sentence for searching relevant legal passages: " + text
	}

	body, err := p.post("/v1/embeddings", embedRequest{Model: p.denseModel, Input: []string{input}})
	if err != nil {
		return nil, err
	}

	var resp denseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("fastembed api returned error: %s", resp.Error.Message)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embeddings from fastembed api")
	}

	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: resp.Data[0].Embedding},
	}, nil
}

func (p *Provider) GenerateSparse(text string) (*store.SparseEmbedding, error) {
	body, err := p.post("/v1/sparse-embeddings", embedRequest{Model: p.sparseModel, Input: []string{text}})
	if err != nil {
		return nil, err
	}

	var resp sparseResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("fastembed api returned error: %s", resp.Error.Message)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty sparse embeddings from fastembed api")
	}

	return &store.SparseEmbedding{
		Indices: resp.Data[0].Indices,
		Values:  resp.Data[0].Values,
	}, nil
}

func (p *Provider) post(path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", p.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fastembed api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}
