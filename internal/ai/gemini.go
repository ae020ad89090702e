package ai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

// GeminiProvider extracts missing fields with Google Gemini.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider builds a provider; model defaults to
// gemini-1.5-flash.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

// Enhance implements Provider.
func (p *GeminiProvider) Enhance(ctx context.Context, raw string, base models.Result) (models.Result, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return models.Result{}, fmt.Errorf("criando cliente Gemini: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(0)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(raw, base)))
	if err != nil {
		return models.Result{}, fmt.Errorf("chamando Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.Result{}, fmt.Errorf("Gemini nao retornou conteudo")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	payload := extractJSONFromText(text)
	if payload == nil {
		return models.Result{}, fmt.Errorf("resposta da IA sem JSON valido")
	}
	return applyPayload(base, payload), nil
}
