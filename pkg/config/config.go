package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultProvider = "openai"
	defaultPort     = "8000"
)

// providerSpec describes where a provider's credential lives and which model
// it uses when none is configured.
type providerSpec struct {
	Label        string
	EnvKey       string
	DefaultModel string
}

var providers = map[string]providerSpec{
	"openai":    {Label: "OpenAI", EnvKey: "OPENAI_API_KEY", DefaultModel: "gpt-4o-mini"},
	"anthropic": {Label: "Anthropic", EnvKey: "ANTHROPIC_API_KEY", DefaultModel: "claude-sonnet-4-20250514"},
	"google":    {Label: "Google", EnvKey: "GOOGLE_API_KEY", DefaultModel: "gemini-2.0-flash"},
	"deepseek":  {Label: "DeepSeek", EnvKey: "DEEPSEEK_API_KEY", DefaultModel: "deepseek-chat"},
}

// Config holds the application configuration. It is read once per process.
type Config struct {
	Provider      string
	Model         string
	ResponseShape string
	// StageShapes overrides ResponseShape per stage, keyed by stage id
	// ("analysis", "insights", "next_steps").
	StageShapes map[string]string
	Port          string
	Env           string
	LogMode       string
	CORSOrigins   []string
	Catalog       *Catalog

	apiKey string
}

// ConfigurationError reports a missing or invalid required setting.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "configuration error"
	}
	return e.Message
}

// Load reads a .env file when present, then the environment.
// A missing API key is not an error here; see APIKey.
func Load() (*Config, error) {
	_ = godotenv.Load()

	provider := strings.ToLower(getEnvOrDefault("SKILLMASTER_PROVIDER", defaultProvider))
	prov, ok := providers[provider]
	if !ok {
		return nil, &ConfigurationError{
			Setting: "SKILLMASTER_PROVIDER",
			Message: fmt.Sprintf("unknown provider %q", provider),
		}
	}

	catalog := DefaultCatalog()
	if path := strings.TrimSpace(os.Getenv("SKILLMASTER_CATALOG")); path != "" {
		loaded, err := LoadCatalog(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", path, err)
		}
		catalog = loaded
	}

	port := strings.TrimPrefix(getEnvOrDefault("PORT", defaultPort), ":")

	return &Config{
		Provider:      provider,
		Model:         getEnvOrDefault("SKILLMASTER_MODEL", prov.DefaultModel),
		ResponseShape: getEnvOrDefault("SKILLMASTER_RESPONSE_SHAPE", "object"),
		StageShapes:   stageShapes(),
		Port:          port,
		Env:           getEnvOrDefault("APP_ENV", "local"),
		LogMode:       getEnvOrDefault("LOG_MODE", "development"),
		CORSOrigins:   splitList(getEnvOrDefault("SKILLMASTER_CORS_ORIGINS", "*")),
		Catalog:       catalog,
		apiKey:        strings.TrimSpace(os.Getenv(prov.EnvKey)),
	}, nil
}

// APIKey returns the credential for the selected provider, or a
// ConfigurationError naming the variable to set.
func (c *Config) APIKey() (string, error) {
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	prov := providers[c.Provider]
	return "", &ConfigurationError{
		Setting: prov.EnvKey,
		Message: fmt.Sprintf("%s API key not configured. Please set %s in .env file", prov.Label, prov.EnvKey),
	}
}

// WithAPIKey returns a copy of c using key as the provider credential.
func (c *Config) WithAPIKey(key string) *Config {
	out := *c
	out.apiKey = strings.TrimSpace(key)
	return &out
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// stageShapeEnv maps stage ids to their response shape override variable.
var stageShapeEnv = map[string]string{
	"analysis":   "SKILLMASTER_RESPONSE_SHAPE_ANALYSIS",
	"insights":   "SKILLMASTER_RESPONSE_SHAPE_INSIGHTS",
	"next_steps": "SKILLMASTER_RESPONSE_SHAPE_NEXT_STEPS",
}

func stageShapes() map[string]string {
	out := make(map[string]string)
	for stage, envVar := range stageShapeEnv {
		if val := strings.TrimSpace(os.Getenv(envVar)); val != "" {
			out[stage] = val
		}
	}
	return out
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(envVar)); val != "" {
		return val
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
