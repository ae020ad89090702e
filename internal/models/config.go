package models

// Config is the server configuration loaded from config.yaml with
// environment variable overrides.
type Config struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	Extract struct {
		EnableAI bool `yaml:"enable_ai"`
	} `yaml:"extract"`

	AI struct {
		DefaultProvider string `yaml:"default_provider"`
		Webhook         struct {
			URL string `yaml:"url"`
		} `yaml:"webhook"`
		OpenAI struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url"`
			Model   string `yaml:"model"`
		} `yaml:"openai"`
		Gemini struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"ai"`

	Insights struct {
		Schedule string   `yaml:"schedule"`
		Orgs     []string `yaml:"orgs"`
	} `yaml:"insights"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// ExtractOptions tune a single extraction call.
type ExtractOptions struct {
	EnableAI     bool   `json:"enableAI"`
	AIWebhookURL string `json:"aiWebhookUrl"`
}

// ExtractRequest is the JSON body accepted by POST /api/extract.
type ExtractRequest struct {
	Text         string `json:"text"`
	EnableAI     bool   `json:"enableAI"`
	AIWebhookURL string `json:"aiWebhookUrl"`
}

// ExtractResponse wraps a Result with the persisted record id, when any.
type ExtractResponse struct {
	Result
	NotaID     string `json:"notaId,omitempty"`
	ArquivoURL string `json:"arquivoUrl,omitempty"`
}
