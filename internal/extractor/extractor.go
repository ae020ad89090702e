package extractor

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nfscan/invoice-extract-service/internal/ai"
	"github.com/nfscan/invoice-extract-service/internal/logger"
	"github.com/nfscan/invoice-extract-service/internal/models"
)

// Heuristic runs the full pattern-based pipeline over raw invoice text
// and scores the result by how many required fields were found.
func Heuristic(raw string) models.Result {
	doc := Normalize(raw)
	tipo := DetectType(doc.Text)

	fields := models.Fields{
		Tipo:        string(tipo),
		NumeroNF:    extractNumeroNF(doc.Text, doc.Lines, tipo),
		DataEmissao: extractDateISO(doc.Text),
		Cliente:     extractCliente(doc.Lines, doc.Text, tipo),
		Documento:   extractDocumento(doc.Text, tipo),
	}
	if valor, ok := extractValor(doc.Text, tipo, doc.Lines); ok {
		fields.Valor = &valor
	}

	parts := []string{string(tipo)}
	if desc := extractDescricao(doc.Lines, doc.Text, tipo); desc != "" {
		parts = append(parts, desc)
	}
	fields.Descricao = strings.Join(parts, " - ")

	return models.Result{
		Method:     models.MethodHeuristic,
		Confidence: models.Confidence(fields),
		Missing:    models.Missing(fields),
		Fields:     fields,
	}
}

// Service ties the heuristic pipeline to an optional AI provider.
type Service struct {
	provider ai.Provider
	client   *http.Client
	log      zerolog.Logger
}

// NewService builds a Service. provider may be nil, in which case a
// webhook provider is built per request from the caller's options.
func NewService(provider ai.Provider) *Service {
	return &Service{
		provider: provider,
		client:   &http.Client{},
		log:      logger.WithComponent("extractor"),
	}
}

// Extract runs heuristics and, when enabled, asks the AI provider to
// fill in missing fields. AI failures never fail the call: the
// heuristic result is returned with the error message attached.
func (s *Service) Extract(ctx context.Context, raw string, opts models.ExtractOptions) models.Result {
	base := Heuristic(raw)

	provider := s.provider
	if url := strings.TrimSpace(opts.AIWebhookURL); url != "" {
		provider = ai.NewWebhookProvider(url, s.client)
	}
	if !opts.EnableAI || provider == nil {
		return base
	}

	enhanced, err := provider.Enhance(ctx, raw, base)
	if err != nil {
		s.log.Warn().Err(err).Msg("enriquecimento por IA falhou, mantendo resultado heuristico")
		base.AIError = err.Error()
		base.Method = models.MethodHeuristic
		return base
	}
	return enhanced
}
