package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

var AppEnv Config

type Config struct {
	Port string `env:"PORT" envDefault:"5000"`

	StoreDriver        string `env:"STORE_DRIVER" envDefault:"file"`
	DBFile             string `env:"DB_FILE" envDefault:"database.json"`
	MongoURI           string `env:"MONGO_URI"`
	DBName             string `env:"DB_NAME" envDefault:"sals"`
	DocumentCollection string `env:"DOCUMENT_COLLECTION" envDefault:"documents"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	CORSOrigins      []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitEnabled bool     `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`

	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIAPIBase string        `env:"OPENAI_API_BASE" envDefault:"https://api.openai.com/v1"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTimeout    time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	OCRURL        string        `env:"OCR_URL"`
	OCRAPIKey     string        `env:"OCR_API_KEY"`

	TapAPIKey              string        `env:"TAP_API_KEY"`
	TapBaseURL             string        `env:"TAP_BASE_URL" envDefault:"https://api.tap.company/v2"`
	PaymentTimeout         time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"30s"`
	PaymentCurrency        string        `env:"PAYMENT_CURRENCY" envDefault:"SAR"`
	WebhookBaseURL         string        `env:"WEBHOOK_BASE_URL"`
	SuccessRedirectBaseURL string        `env:"SUCCESS_REDIRECT_BASE_URL"`
}

// Load reads .env when present, then the process environment, into AppEnv.
func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg, err := Parse()
	if err != nil {
		return err
	}
	AppEnv = cfg
	return nil
}

// Parse builds a Config from the current environment and checks the settings
// the server cannot start without.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
