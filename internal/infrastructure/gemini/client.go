package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// DefaultModel konfiguratsiyada model berilmaganda
const DefaultModel = "gemini-2.0-flash"

type geminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	sem       chan struct{}
	mu        sync.Mutex
	last      time.Time
	delay     time.Duration
}

// NewGeminiClient yangi Gemini Responder yaratish
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (repository.Responder, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(500)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(entity.PersonaInstructions)},
	}

	return &geminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
		sem:       make(chan struct{}, 3), // bir vaqtda 3 ta so'rovdan oshirma
		delay:     350 * time.Millisecond, // minimal interval
	}, nil
}

// Name provayder nomi
func (g *geminiClient) Name() string {
	return "gemini:" + g.modelName
}

// Probe model ma'lumotini so'rab kalit va modelni tekshirish
func (g *geminiClient) Probe(ctx context.Context) error {
	if _, err := g.model.Info(ctx); err != nil {
		return fmt.Errorf("gemini model info: %w", err)
	}
	return nil
}

// Generate kontekst va xabar bo'yicha javob yaratish
func (g *geminiClient) Generate(ctx context.Context, req entity.GenerationRequest) (string, error) {
	release, err := g.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	parts := []genai.Part{
		genai.Text("CONTEXTO:\n" + req.Context),
		genai.Text("MENSAJE ACTUAL DEL CLIENTE: " + req.Message),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates")
	}

	return extractText(resp), nil
}

// extractText javobdan matn qismlarini ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				result.WriteString(string(text))
			}
		}
	}
	return result.String()
}

// acquire parallel so'rovlarni cheklash va so'rovlar orasida minimal interval saqlash
func (g *geminiClient) acquire(ctx context.Context) (func(), error) {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release := func() { <-g.sem }

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.last.IsZero() {
		if wait := g.delay - now.Sub(g.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				release()
				return nil, ctx.Err()
			}
			now = time.Now()
		}
	}
	g.last = now

	return release, nil
}

// Close client ni yopish
func (g *geminiClient) Close() error {
	return g.client.Close()
}
