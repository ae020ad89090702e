package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

// OpenAIProvider extracts missing fields with a chat-completion model.
// Works with OpenAI and any compatible endpoint (LM Studio, Ollama)
// via a custom base URL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a provider. baseURL may be empty for the
// official API; model defaults to gpt-4o-mini.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: model}
}

// Enhance implements Provider.
func (p *OpenAIProvider) Enhance(ctx context.Context, raw string, base models.Result) (models.Result, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(raw, base)},
		},
	})
	if err != nil {
		return models.Result{}, fmt.Errorf("chamando OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Result{}, fmt.Errorf("OpenAI nao retornou escolhas")
	}

	payload := extractJSONFromText(resp.Choices[0].Message.Content)
	if payload == nil {
		return models.Result{}, fmt.Errorf("resposta da IA sem JSON valido")
	}
	return applyPayload(base, payload), nil
}

// buildPrompt asks for exactly the fields the heuristics missed, in
// the same JSON shape the webhook contract uses.
func buildPrompt(raw string, base models.Result) string {
	var b strings.Builder
	b.WriteString("Voce e um especialista em notas fiscais brasileiras (NF-e e NFS-e).\n")
	b.WriteString("Extraia do texto abaixo os campos faltantes e responda APENAS com um JSON:\n")
	b.WriteString(`{"numeroNF":"string","dataEmissao":"YYYY-MM-DD","cliente":"string","documento":"somente digitos","valor":numero,"descricao":"string"}`)
	b.WriteString("\n\nCampos ainda nao encontrados: ")
	if len(base.Missing) > 0 {
		b.WriteString(strings.Join(base.Missing, ", "))
	} else {
		b.WriteString("nenhum (confirme os valores)")
	}
	b.WriteString("\nUse null para o que nao conseguir determinar. Nao invente valores.\n\nTEXTO DA NOTA:\n")
	b.WriteString(raw)
	return b.String()
}
