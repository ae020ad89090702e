package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

func baseResult() models.Result {
	fields := models.Fields{
		Tipo:        "NF-e",
		Cliente:     "Acme Ltda",
		DataEmissao: "2024-03-05",
	}
	return models.Result{
		Method:     models.MethodHeuristic,
		Confidence: models.Confidence(fields),
		Missing:    models.Missing(fields),
		Fields:     fields,
	}
}

func TestWebhookEnhanceMergesOnlyEmptyFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["task"] != "extract_invoice_fields" {
			t.Errorf("task = %v", req["task"])
		}
		if req["locale"] != "pt-BR" {
			t.Errorf("locale = %v", req["locale"])
		}
		if _, ok := req["hints"].(map[string]any); !ok {
			t.Error("hints missing from request")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fields": map[string]any{
				"numeroNF": "789",
				"cliente":  "Outra Empresa",
				"valor":    250.5,
			},
			"note": "campos complementados",
		})
	}))
	defer server.Close()

	provider := NewWebhookProvider(server.URL, nil)
	result, err := provider.Enhance(context.Background(), "texto da nota", baseResult())
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}

	if result.Method != models.MethodHeuristicAI {
		t.Errorf("method = %q, want %q", result.Method, models.MethodHeuristicAI)
	}
	// Heuristic value wins over the webhook's candidate
	if result.Fields.Cliente != "Acme Ltda" {
		t.Errorf("cliente overwritten: %q", result.Fields.Cliente)
	}
	// Empty fields are filled
	if result.Fields.NumeroNF != "789" {
		t.Errorf("numeroNF = %q, want 789", result.Fields.NumeroNF)
	}
	if result.Fields.Valor == nil || !result.Fields.Valor.Equal(decimal.NewFromFloat(250.5)) {
		t.Errorf("valor = %v, want 250.5", result.Fields.Valor)
	}
	if result.AINote != "campos complementados" {
		t.Errorf("aiNote = %q", result.AINote)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
	if len(result.Missing) != 0 {
		t.Errorf("missing = %v, want empty", result.Missing)
	}
}

func TestWebhookEnhanceStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewWebhookProvider(server.URL, nil)
	_, err := provider.Enhance(context.Background(), "texto", baseResult())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should carry the status code", err.Error())
	}
}

func TestWebhookEnhanceJSONEmbeddedInText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("Aqui esta o resultado:\n```json\n{\"numeroNF\": \"42421\", \"valor\": \"1.234,56\"}\n```\nEspero ter ajudado."))
	}))
	defer server.Close()

	provider := NewWebhookProvider(server.URL, nil)
	result, err := provider.Enhance(context.Background(), "texto", baseResult())
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if result.Fields.NumeroNF != "42421" {
		t.Errorf("numeroNF = %q, want 42421", result.Fields.NumeroNF)
	}
	if result.Fields.Valor == nil || result.Fields.Valor.String() != "1234.56" {
		t.Errorf("valor = %v, want 1234.56", result.Fields.Valor)
	}
}

func TestWebhookEnhanceNoValidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("nada util aqui"))
	}))
	defer server.Close()

	provider := NewWebhookProvider(server.URL, nil)
	_, err := provider.Enhance(context.Background(), "texto", baseResult())
	if err == nil {
		t.Fatal("expected error for response without JSON")
	}
}

func TestWebhookEnhanceConfidenceNeverDrops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Webhook answers with nothing useful
		json.NewEncoder(w).Encode(map[string]any{"fields": map[string]any{}})
	}))
	defer server.Close()

	base := baseResult()
	base.Confidence = 90

	provider := NewWebhookProvider(server.URL, nil)
	result, err := provider.Enhance(context.Background(), "texto", base)
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if result.Confidence < 90 {
		t.Errorf("confidence dropped: %d", result.Confidence)
	}
}
