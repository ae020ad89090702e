package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/nfscan/invoice-extract-service/api"
	"github.com/nfscan/invoice-extract-service/internal/ai"
	"github.com/nfscan/invoice-extract-service/internal/analytics"
	"github.com/nfscan/invoice-extract-service/internal/auth"
	"github.com/nfscan/invoice-extract-service/internal/db"
	"github.com/nfscan/invoice-extract-service/internal/extractor"
	"github.com/nfscan/invoice-extract-service/internal/logger"
	"github.com/nfscan/invoice-extract-service/internal/models"
	"github.com/nfscan/invoice-extract-service/internal/storage"
)

func main() {
	// .env is optional, real deployments set the environment directly
	godotenv.Load()

	logger.Setup(logger.DefaultConfig())

	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth")
	}
	log.Info().Msg("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Warn().Err(err).Msg("database not available, running without persistence")
	} else {
		defer db.Close()
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Warn().Err(err).Msg("MinIO storage not available, documents will not be archived")
	} else {
		log.Info().Msg("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	provider := createProvider(config)
	svc := extractor.NewService(provider)

	// Create API handler
	handler := api.NewHandler(config, svc)
	router := handler.SetupRoutes()

	// Periodic insight snapshots, logged for operators
	if config.Insights.Schedule != "" && db.Pool != nil {
		c := cron.New()
		_, err := c.AddFunc(config.Insights.Schedule, func() { snapshotInsights(config) })
		if err != nil {
			log.Warn().Err(err).Str("schedule", config.Insights.Schedule).Msg("invalid insights schedule")
		} else {
			c.Start()
			defer c.Stop()
		}
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Info().Str("addr", addr).Str("version", api.Version).Msg("starting invoice extract service")
	log.Info().Str("provider", config.AI.DefaultProvider).Bool("ai", config.Extract.EnableAI).Msg("AI enrichment")
	log.Info().Bool("database", db.Pool != nil).Bool("storage", storage.Client != nil).Msg("dependencies")
	log.Info().Msg("endpoints: POST /api/login, POST /api/extract, GET/POST /api/notas, GET /api/notas/export, GET /api/insights, GET /api/stats, GET /health, GET /metrics")

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}

// createProvider picks the enrichment backend. Webhook is the default:
// it needs no credentials on this side.
func createProvider(config *models.Config) ai.Provider {
	switch config.AI.DefaultProvider {
	case "openai":
		if config.AI.OpenAI.APIKey != "" {
			return ai.NewOpenAIProvider(config.AI.OpenAI.APIKey, config.AI.OpenAI.BaseURL, config.AI.OpenAI.Model)
		}
	case "gemini":
		if config.AI.Gemini.APIKey != "" {
			return ai.NewGeminiProvider(config.AI.Gemini.APIKey, config.AI.Gemini.Model)
		}
	case "webhook", "":
		if config.AI.Webhook.URL != "" {
			return ai.NewWebhookProvider(config.AI.Webhook.URL, nil)
		}
	}
	return nil
}

// snapshotInsights logs the current insight cards per configured org.
func snapshotInsights(config *models.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, org := range config.Insights.Orgs {
		notas, err := db.GetNotas(ctx, org, 1000)
		if err != nil {
			log.Warn().Err(err).Str("org", org).Msg("insights snapshot failed")
			continue
		}
		records := make([]analytics.Record, 0, len(notas))
		for _, n := range notas {
			rec := analytics.Record{ID: n.ID.String(), Cliente: n.Cliente, Valor: n.Valor}
			if n.DataEmissao != nil {
				rec.DataEmissao = n.DataEmissao.Format("2006-01-02")
			}
			records = append(records, rec)
		}
		insights := analytics.Run(records, analytics.BuildMonthlySeries(records))
		for _, insight := range insights {
			log.Info().Str("org", org).Str("title", insight.Title).Str("text", insight.Text).Msg("insight")
		}

		totals, err := db.GetMonthlyTotals(ctx, org, 12)
		if err != nil {
			log.Warn().Err(err).Str("org", org).Msg("monthly totals query failed")
			continue
		}
		for _, t := range totals {
			log.Info().Str("org", org).
				Str("month", t.Month.Format("2006-01")).
				Int("count", t.Count).
				Float64("total", t.Total).
				Msg("monthly billing")
		}
	}
}

func loadConfig(path string) (*models.Config, error) {
	var config models.Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine, env vars cover everything
	} else if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			config.Port = n
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if v := os.Getenv("EXTRACT_ENABLE_AI"); v != "" {
		config.Extract.EnableAI = v == "true"
	}
	if url := os.Getenv("AI_WEBHOOK_URL"); url != "" {
		config.AI.Webhook.URL = url
	}
	if provider := os.Getenv("AI_PROVIDER"); provider != "" {
		config.AI.DefaultProvider = provider
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.AI.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.AI.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.AI.OpenAI.Model = model
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.AI.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.AI.Gemini.Model = model
	}

	if config.Port == 0 {
		config.Port = 8080
	}

	return &config, nil
}
