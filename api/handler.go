package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/nfscan/invoice-extract-service/internal/analytics"
	"github.com/nfscan/invoice-extract-service/internal/auth"
	"github.com/nfscan/invoice-extract-service/internal/db"
	"github.com/nfscan/invoice-extract-service/internal/extractor"
	"github.com/nfscan/invoice-extract-service/internal/logger"
	"github.com/nfscan/invoice-extract-service/internal/metrics"
	"github.com/nfscan/invoice-extract-service/internal/models"
	"github.com/nfscan/invoice-extract-service/internal/storage"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
	Version       = "1.2.0"
)

// Handler handles HTTP requests for invoice extraction
type Handler struct {
	config    *models.Config
	extractor *extractor.Service
	log       zerolog.Logger
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, svc *extractor.Service) *Handler {
	return &Handler{
		config:    config,
		extractor: svc,
		log:       logger.WithComponent("api"),
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Auth
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Extraction
	router.HandleFunc("/api/extract", h.Extract).Methods("POST")

	// Nota CRUD
	router.HandleFunc("/api/notas", h.CreateNota).Methods("POST")
	router.HandleFunc("/api/notas", h.GetNotas).Methods("GET")
	router.HandleFunc("/api/notas/export", h.ExportNotas).Methods("GET")
	router.HandleFunc("/api/notas/{id}", h.GetNota).Methods("GET")
	router.HandleFunc("/api/notas/{id}", h.UpdateNota).Methods("PUT")
	router.HandleFunc("/api/notas/{id}", h.DeleteNota).Methods("DELETE")

	// Analytics
	router.HandleFunc("/api/insights", h.GetInsights).Methods("GET")
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")

	// Monitoring
	router.HandleFunc("/health", h.Health).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	router.Use(auth.JWTMiddleware)

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Memory    MemoryStats       `json:"memory"`
	Database  ServiceStatus     `json:"database"`
	Storage   ServiceStatus     `json:"storage"`
	AI        map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Database: h.checkDatabase(),
		Storage:  h.checkStorage(),
		AI: map[string]string{
			"defaultProvider": h.config.AI.DefaultProvider,
		},
	}

	// Extraction works without db/storage, so they never degrade status
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies PostgreSQL connection
func (h *Handler) checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}
	return ServiceStatus{
		Available: true,
		Version:   "PostgreSQL via PgBouncer",
	}
}

// checkStorage verifies MinIO connection
func (h *Handler) checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}
	return ServiceStatus{
		Available: true,
		Version:   "MinIO S3",
	}
}

// Extract runs the extraction pipeline over raw invoice text. Accepts
// a JSON body or a multipart upload with a "file" field; uploads are
// archived to MinIO when storage is configured.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	begin := time.Now()

	claims, ok := auth.GetClaimsFromContext(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var raw string
	opts := models.ExtractOptions{EnableAI: h.config.Extract.EnableAI, AIWebhookURL: h.config.AI.Webhook.URL}
	var arquivoURL string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
			h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' field)")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, "Failed to read file")
			return
		}
		raw = string(data)

		if v := r.FormValue("enableAI"); v != "" {
			opts.EnableAI = v == "true"
		}
		if v := r.FormValue("aiWebhookUrl"); v != "" {
			opts.AIWebhookURL = v
		}

		fileType := header.Header.Get("Content-Type")
		if fileType == "" {
			fileType = "text/plain"
		}
		filename := fmt.Sprintf("%s_%s%s",
			time.Now().Format("20060102_150405"),
			uuid.New().String()[:8],
			storage.GetFileExtension(fileType),
		)

		// Archive is best effort
		if storage.Client != nil {
			arquivoURL, err = storage.UploadDocument(ctx, claims.OrgAlias, filename,
				bytes.NewReader(data), int64(len(data)), fileType)
			if err != nil {
				h.log.Warn().Err(err).Msg("falha ao arquivar documento no MinIO")
				arquivoURL = ""
			}
		}
	} else {
		var req models.ExtractRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadSize)).Decode(&req); err != nil {
			h.sendError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		raw = req.Text
		if req.EnableAI {
			opts.EnableAI = true
		}
		if req.AIWebhookURL != "" {
			opts.AIWebhookURL = req.AIWebhookURL
		}
	}

	if strings.TrimSpace(raw) == "" {
		h.sendError(w, http.StatusBadRequest, "text is required")
		return
	}

	result := h.extractor.Extract(ctx, raw, opts)

	metrics.ExtractionsTotal.WithLabelValues(result.Fields.Tipo, result.Method).Inc()
	metrics.ExtractionDuration.Observe(time.Since(begin).Seconds())
	if result.AIError != "" {
		metrics.AIFailuresTotal.Inc()
	}

	response := models.ExtractResponse{Result: result, ArquivoURL: arquivoURL}

	// Persist as pending when the database is available
	if db.Pool != nil {
		nota := notaFromResult(result, arquivoURL, raw)
		if err := db.SaveNota(ctx, claims.OrgAlias, nota); err != nil {
			h.log.Warn().Err(err).Msg("falha ao persistir nota extraida")
		} else {
			response.NotaID = nota.ID.String()
		}
	}

	h.log.Info().
		Str("org", claims.OrgAlias).
		Str("tipo", result.Fields.Tipo).
		Str("method", result.Method).
		Int("confidence", result.Confidence).
		Dur("duration", time.Since(begin)).
		Msg("extracao concluida")

	json.NewEncoder(w).Encode(response)
}

func notaFromResult(result models.Result, arquivoURL, raw string) *db.Nota {
	nota := &db.Nota{
		NumeroNF:   result.Fields.NumeroNF,
		Cliente:    result.Fields.Cliente,
		Documento:  result.Fields.Documento,
		Descricao:  result.Fields.Descricao,
		Tipo:       result.Fields.Tipo,
		Method:     result.Method,
		Confidence: result.Confidence,
		ArquivoURL: arquivoURL,
		Estado:     "pendente",
		RawText:    raw,
	}
	if result.Fields.Valor != nil {
		nota.Valor, _ = result.Fields.Valor.Float64()
	}
	if t, err := time.Parse("2006-01-02", result.Fields.DataEmissao); err == nil {
		nota.DataEmissao = &t
	}
	return nota
}

// GetInsights runs the analytics engine over the organization's notas.
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	records, err := h.loadRecords(r, claims.OrgAlias)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to load notas")
		return
	}

	monthly := analytics.BuildMonthlySeries(records)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"insights": analytics.Run(records, monthly),
		"monthly":  monthly,
		"clients":  analytics.BuildClientSeries(records),
	})
}

// GetStats returns summary aggregates and growth for dashboards.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if db.Pool == nil {
		h.sendError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	records, err := h.loadRecords(r, claims.OrgAlias)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to load notas")
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"summary":     analytics.BuildSummary(records),
		"growth":      analytics.BuildGrowthIndicator(records),
		"projection":  analytics.MonthlyProjection(records, time.Now()),
		"monthlyRows": analytics.BuildMonthlySummaryRows(records),
	})
}

// loadRecords fetches notas and applies any query-string filters.
func (h *Handler) loadRecords(r *http.Request, orgAlias string) ([]analytics.Record, error) {
	limit := 1000
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 5000 {
			limit = n
		}
	}

	notas, err := db.GetNotas(r.Context(), orgAlias, limit)
	if err != nil {
		return nil, err
	}

	records := make([]analytics.Record, 0, len(notas))
	for _, n := range notas {
		rec := analytics.Record{
			ID:        n.ID.String(),
			NumeroNF:  n.NumeroNF,
			Cliente:   n.Cliente,
			Documento: n.Documento,
			Descricao: n.Descricao,
			Valor:     n.Valor,
		}
		if n.DataEmissao != nil {
			rec.DataEmissao = n.DataEmissao.Format("2006-01-02")
		}
		records = append(records, rec)
	}

	filters := filtersFromQuery(r)
	records = analytics.Apply(records, filters)

	if key := r.URL.Query().Get("sort"); key != "" {
		records = analytics.Sort(records, key, r.URL.Query().Get("order") != "desc")
	}
	return records, nil
}

func filtersFromQuery(r *http.Request) analytics.Filters {
	q := r.URL.Query()
	f := analytics.Filters{
		Search:   q.Get("search"),
		StartISO: q.Get("start"),
		EndISO:   q.Get("end"),
	}
	if v, err := strconv.Atoi(q.Get("month")); err == nil {
		f.Month = v
	}
	if v, err := strconv.Atoi(q.Get("year")); err == nil {
		f.Year = v
	}
	if v, err := strconv.ParseFloat(q.Get("minValue"), 64); err == nil {
		f.MinValue = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxValue"), 64); err == nil {
		f.MaxValue = &v
	}
	return f
}

// sendError writes a JSON error response
func (h *Handler) sendError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
