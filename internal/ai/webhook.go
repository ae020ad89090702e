package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

// WebhookProvider posts the raw text to a user-supplied HTTP endpoint
// (typically an n8n or Make flow fronting an LLM) and merges whatever
// structured fields come back.
type WebhookProvider struct {
	url    string
	client *http.Client
}

// NewWebhookProvider builds a provider for the given endpoint. Timeouts
// are the caller's responsibility via the request context.
func NewWebhookProvider(url string, client *http.Client) *WebhookProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &WebhookProvider{url: url, client: client}
}

type webhookRequest struct {
	Task         string            `json:"task"`
	Locale       string            `json:"locale"`
	Text         string            `json:"text"`
	Hints        models.Fields     `json:"hints"`
	ReturnSchema map[string]string `json:"return_schema"`
}

var returnSchema = map[string]string{
	"numeroNF":    "string",
	"dataEmissao": "YYYY-MM-DD",
	"cliente":     "string",
	"documento":   "digits_only",
	"valor":       "number",
	"descricao":   "string",
}

// Enhance implements Provider.
func (p *WebhookProvider) Enhance(ctx context.Context, raw string, base models.Result) (models.Result, error) {
	body, err := json.Marshal(webhookRequest{
		Task:         "extract_invoice_fields",
		Locale:       "pt-BR",
		Text:         raw,
		Hints:        base.Fields,
		ReturnSchema: returnSchema,
	})
	if err != nil {
		return models.Result{}, fmt.Errorf("montando requisicao do webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return models.Result{}, fmt.Errorf("criando requisicao do webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return models.Result{}, fmt.Errorf("chamando webhook de IA: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Result{}, fmt.Errorf("webhook de IA retornou %d", resp.StatusCode)
	}

	raw2, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Result{}, fmt.Errorf("lendo resposta do webhook: %w", err)
	}

	var payload map[string]any
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw2, &payload); err != nil {
			payload = nil
		}
	} else {
		payload = extractJSONFromText(string(raw2))
	}
	if payload == nil {
		return models.Result{}, fmt.Errorf("resposta da IA sem JSON valido")
	}

	return applyPayload(base, payload), nil
}
