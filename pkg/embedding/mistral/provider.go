package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-rag-be/pkg/embedding"
)

const defaultEndpoint = "https://api.mistral.ai/v1/embeddings"

type Provider struct {
	apiKey    string
	model     string
	dimension int
	endpoint  string
	client    *http.Client
}

var _ embedding.Provider = &Provider{}

func NewProvider(apiKey, model string, dimension int) *Provider {
	return &Provider{
		apiKey:    apiKey,
		model:     model,
		dimension: dimension,
		endpoint:  defaultEndpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *Provider) Generate(ctx context.Context, inputs []string, taskType string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Model: p.model,
		Input: inputs,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(bodyBytes, &embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Data) != len(inputs) {
		return nil, fmt.Errorf("mistral api returned %d embeddings for %d inputs", len(embResp.Data), len(inputs))
	}

	// The API echoes an index per row; order by it rather than trusting
	// slice order.
	vectors := make([][]float32, len(inputs))
	for _, d := range embResp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("mistral api returned out-of-range index %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}

	for i, v := range vectors {
		if len(v) != p.dimension {
			return nil, fmt.Errorf("embedding %d has %d dimensions, expected %d", i, len(v), p.dimension)
		}
	}

	return vectors, nil
}

func (p *Provider) Dimension() int {
	return p.dimension
}
