package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHFEndpoint     = "https://api-inference.huggingface.co/models"
	defaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"
)

// ProviderDescriptor configures one primary model provider. Shape selects
// the wire protocol: "inference" (list-or-object generation payload) or
// "chat" (chat-completion payload).
type ProviderDescriptor struct {
	Name     string
	Shape    string
	Endpoint string
	APIKey   string
	Model    string
}

type Config struct {
	DatabaseURL string

	// REST table backend (Supabase-style PostgREST API).
	SupabaseURL string
	SupabaseKey string

	// QueryBackend selects the executor: "rest" (default) or "engine".
	QueryBackend string

	// Providers are the ordered cascade primaries; Gemini is always the
	// designated fallback.
	Providers       []ProviderDescriptor
	GeminiAPIKey    string
	GeminiModel     string
	ProviderTimeout time.Duration

	ExpiryAlertDays int
	SchemaPath      string
	SeedDemoData    bool

	WhatsAppEnabled   bool
	WhatsAppStorePath string
	APIKey            string
	HTTPAddr          string
}

func NewConfig() *Config {
	// Load .env if present
	_ = godotenv.Load()

	c := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SupabaseURL:       strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:       os.Getenv("SUPABASE_KEY"),
		QueryBackend:      getenvDefault("QUERY_BACKEND", "rest"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getenvDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		ProviderTimeout:   durationEnv("PROVIDER_TIMEOUT", 20*time.Second),
		ExpiryAlertDays:   intEnv("EXPIRY_ALERT_DAYS", 3),
		SchemaPath:        os.Getenv("SCHEMA_PATH"),
		SeedDemoData:      strings.EqualFold(os.Getenv("SEED_DEMO_DATA"), "true"),
		WhatsAppEnabled:   !strings.EqualFold(os.Getenv("WHATSAPP_ENABLED"), "false"),
		WhatsAppStorePath: getenvDefault("WHATSAPP_STORE_PATH", "whatsmeow.db"),
		APIKey:            os.Getenv("API_KEY"),
		HTTPAddr:          getenvDefault("HTTP_ADDR", ":8080"),
	}
	c.Providers = parseProviders()
	return c
}

// parseProviders builds the ordered primary list: the cheaper inference
// models first, a chat-shape model after them if configured. The order of
// HF_MODELS is the cascade order.
func parseProviders() []ProviderDescriptor {
	var out []ProviderDescriptor

	hfKey := os.Getenv("HF_API_KEY")
	hfBase := strings.TrimRight(getenvDefault("HF_ENDPOINT", defaultHFEndpoint), "/")
	for _, model := range strings.Split(os.Getenv("HF_MODELS"), ",") {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		out = append(out, ProviderDescriptor{
			Name:     "hf/" + model,
			Shape:    "inference",
			Endpoint: hfBase + "/" + model,
			APIKey:   hfKey,
			Model:    model,
		})
	}

	if model := strings.TrimSpace(os.Getenv("OPENAI_MODEL")); model != "" {
		out = append(out, ProviderDescriptor{
			Name:     "openai/" + model,
			Shape:    "chat",
			Endpoint: getenvDefault("OPENAI_ENDPOINT", defaultOpenAIEndpoint),
			APIKey:   os.Getenv("OPENAI_API_KEY"),
			Model:    model,
		})
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func durationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

func (c *Config) GetWhatsAppStorePath() string {
	return c.WhatsAppStorePath
}

func (c *Config) GetAPIKey() string {
	return c.APIKey
}

func (c *Config) GetHTTPAddr() string {
	return c.HTTPAddr
}
