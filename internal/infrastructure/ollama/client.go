package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// ErrModelNotFound server ishlayapti, lekin model yuklanmagan
var ErrModelNotFound = errors.New("ollama model not found")

const (
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "llama2"
)

type ollamaClient struct {
	endpoint string
	model    string
	client   *http.Client
}

// NewOllamaClient lokal Ollama serveriga ulanuvchi Responder.
// Timeoutlar chaqiruvchi context orqali boshqariladi.
func NewOllamaClient(endpoint, model string, httpClient *http.Client) repository.Responder {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ollamaClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client:   httpClient,
	}
}

// Name provayder nomi
func (c *ollamaClient) Name() string {
	return fmt.Sprintf("ollama:%s", c.model)
}

// Probe /api/tags orqali server va modelni tekshirish
func (c *ollamaClient) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name == c.model || m.Name == c.model+":latest" {
			return nil
		}
		names = append(names, m.Name)
	}
	return fmt.Errorf("%w: %s (available: %s)", ErrModelNotFound, c.model, strings.Join(names, ", "))
}

// Generate /api/generate orqali javob olish
func (c *ollamaClient) Generate(ctx context.Context, req entity.GenerationRequest) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: req.Prompt(),
		Stream: false,
		Options: generateOptions{
			Temperature: 0.7,
			TopP:        0.9,
			NumPredict:  500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return strings.TrimSpace(result.Response), nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}
