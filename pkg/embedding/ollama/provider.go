package ollama

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

type Provider struct {
	BaseURL   string
	ModelName string
	Dim       int
	Client    *http.Client
}

var _ embedding.Provider = &Provider{}

func NewProvider(baseURL, modelName string, dimension int) *Provider {
	return &Provider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Dim:       dimension,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (p *Provider) Generate(ctx context.Context, inputs []string, taskType string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	payloadBytes, err := json.Marshal(embedRequest{
		Model: p.ModelName,
		Input: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := p.BaseURL + "/api/embed"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var embResp embedResponse
	if err := json.Unmarshal(bodyBytes, &embResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(embResp.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d inputs", len(embResp.Embeddings), len(inputs))
	}

	return embResp.Embeddings, nil
}

func (p *Provider) Dimension() int {
	return p.Dim
}
