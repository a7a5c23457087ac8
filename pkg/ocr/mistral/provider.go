package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-rag-be/pkg/ocr"
)

const defaultEndpoint = "https://api.mistral.ai/v1/ocr"

type Provider struct {
	ApiKey   string
	Model    string
	Endpoint string
	client   *http.Client
}

func NewProvider(apiKey, model string) ocr.Provider {
	return &Provider{
		ApiKey:   apiKey,
		Model:    model,
		Endpoint: defaultEndpoint,
		client: &http.Client{
			// OCR of a large PDF is slow; this bounds a hung upstream, not a
			// normal run.
			Timeout: 5 * time.Minute,
		},
	}
}

type ocrRequestDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrRequest struct {
	Model              string             `json:"model"`
	Document           ocrRequestDocument `json:"document"`
	IncludeImageBase64 bool               `json:"include_image_base64"`
}

func (p *Provider) Process(ctx context.Context, documentURL string) (*ocr.Result, error) {
	ocrReq := ocrRequest{
		Model: p.Model,
		Document: ocrRequestDocument{
			Type:        "document_url",
			DocumentURL: documentURL,
		},
		IncludeImageBase64: true,
	}
	ocrReqJson, err := json.Marshal(ocrReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.Endpoint, bytes.NewBuffer(ocrReqJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from mistral ocr, code %d, body %s", res.StatusCode, string(resByte))
	}

	var result ocr.Result
	if err := json.Unmarshal(resByte, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
