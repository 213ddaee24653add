package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Proveedores de completion soportados.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderCanned    = "canned" // modo dev, respuestas enlatadas
)

// Config del servicio: YAML opcional + overrides por env var.
// El env siempre gana sobre el archivo, y todo tiene default usable en dev
// salvo las API keys de los proveedores reales.
type Config struct {
	Port string `yaml:"port"`

	DBDSN string `yaml:"dbDSN"` // vacío => repos in-memory

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`

	CompletionProvider string `yaml:"completionProvider"`
	GeminiAPIKey       string `yaml:"geminiAPIKey"`
	GeminiModel        string `yaml:"geminiModel"`
	AnthropicAPIKey    string `yaml:"anthropicAPIKey"`
	AnthropicModel     string `yaml:"anthropicModel"`

	RedisAddr     string `yaml:"redisAddr"` // vacío => sin rate limit
	RedisPassword string `yaml:"redisPassword"`
	ChatPerMinute int    `yaml:"chatPerMinute"` // mensajes de chat por mascota por minuto

	JWTSecret string `yaml:"jwtSecret"` // vacío => auth en modo dev (X-Debug-User-ID)
}

// Load lee el YAML si existe (no es error que falte), aplica env y defaults.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// config.yaml es opcional; en dev alcanza con env vars
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setIfEnv(&cfg.Port, "PORT")
	setIfEnv(&cfg.DBDSN, "DB_DSN")
	setIfEnv(&cfg.LogLevel, "LOG_LEVEL")
	setIfEnv(&cfg.LogFormat, "LOG_FORMAT")
	setIfEnv(&cfg.CompletionProvider, "COMPLETION_PROVIDER")
	setIfEnv(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setIfEnv(&cfg.GeminiModel, "GEMINI_MODEL")
	setIfEnv(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setIfEnv(&cfg.AnthropicModel, "ANTHROPIC_MODEL")
	setIfEnv(&cfg.RedisAddr, "REDIS_ADDR")
	setIfEnv(&cfg.RedisPassword, "REDIS_PASSWORD")
	setIfEnv(&cfg.JWTSecret, "JWT_SECRET")

	if v := strings.TrimSpace(os.Getenv("CHAT_PER_MINUTE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			// Mejor fallar al arranque que arrancar con el default sin avisar.
			return fmt.Errorf("config: invalid CHAT_PER_MINUTE %q: %w", v, err)
		}
		cfg.ChatPerMinute = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8080"
	}
	if strings.TrimSpace(cfg.CompletionProvider) == "" {
		// Con API key de Gemini asumimos gemini (es el proveedor histórico);
		// sin keys, canned para poder levantar el server en dev.
		switch {
		case strings.TrimSpace(cfg.GeminiAPIKey) != "":
			cfg.CompletionProvider = ProviderGemini
		case strings.TrimSpace(cfg.AnthropicAPIKey) != "":
			cfg.CompletionProvider = ProviderAnthropic
		default:
			cfg.CompletionProvider = ProviderCanned
		}
	}
	if strings.TrimSpace(cfg.GeminiModel) == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}
	if strings.TrimSpace(cfg.AnthropicModel) == "" {
		cfg.AnthropicModel = "claude-3-5-haiku-latest"
	}
	if cfg.ChatPerMinute <= 0 {
		// El free tier de Gemini anda por 15 RPM; dejamos margen.
		cfg.ChatPerMinute = 10
	}
}

func validate(cfg Config) error {
	switch cfg.CompletionProvider {
	case ProviderGemini:
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			return errors.New("config: geminiAPIKey is required (set GEMINI_API_KEY)")
		}
	case ProviderAnthropic:
		if strings.TrimSpace(cfg.AnthropicAPIKey) == "" {
			return errors.New("config: anthropicAPIKey is required (set ANTHROPIC_API_KEY)")
		}
	case ProviderCanned:
	default:
		return fmt.Errorf("config: unknown completionProvider %q", cfg.CompletionProvider)
	}
	return nil
}

func setIfEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
