package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfscan/invoice-extract-service/internal/models"
)

func TestServiceExtractWithoutAI(t *testing.T) {
	svc := NewService(nil)
	result := svc.Extract(context.Background(), danfeSample, models.ExtractOptions{})

	if result.Method != models.MethodHeuristic {
		t.Errorf("method = %q, want heuristic", result.Method)
	}
	if result.AIError != "" {
		t.Errorf("unexpected aiError: %q", result.AIError)
	}
}

func TestServiceExtractAIDisabledIgnoresWebhook(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := NewService(nil)
	svc.Extract(context.Background(), danfeSample, models.ExtractOptions{
		EnableAI:     false,
		AIWebhookURL: server.URL,
	})
	if called {
		t.Error("webhook called with AI disabled")
	}
}

func TestServiceExtractAIFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewService(nil)
	result := svc.Extract(context.Background(), danfeSample, models.ExtractOptions{
		EnableAI:     true,
		AIWebhookURL: server.URL,
	})

	if result.Method != models.MethodHeuristic {
		t.Errorf("method = %q, want heuristic after AI failure", result.Method)
	}
	if result.AIError == "" {
		t.Error("aiError should carry the failure")
	}
	// Heuristic fields survive untouched
	if result.Fields.NumeroNF != "123456" {
		t.Errorf("numeroNF = %q, want 123456", result.Fields.NumeroNF)
	}
	if result.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", result.Confidence)
	}
}

func TestServiceExtractAISuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"fields": map[string]any{"documento": "98765432000110"},
		})
	}))
	defer server.Close()

	// Sample without a findable documento
	raw := "CHAVE DE ACESSO\nNF-e 555\nData Emissao: 01/02/2024\nVALOR TOTAL DA NOTA 10,00"
	svc := NewService(nil)
	result := svc.Extract(context.Background(), raw, models.ExtractOptions{
		EnableAI:     true,
		AIWebhookURL: server.URL,
	})

	if result.Method != models.MethodHeuristicAI {
		t.Errorf("method = %q, want heuristic+ai", result.Method)
	}
	if result.Fields.Documento != "98765432000110" {
		t.Errorf("documento = %q, want webhook value", result.Fields.Documento)
	}
}
