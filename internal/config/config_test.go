package config

import (
	"os"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestParseDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "STORE_DRIVER", "DB_FILE", "CORS_ORIGINS", "LLM_TIMEOUT", "PAYMENT_TIMEOUT", "PAYMENT_CURRENCY")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, StoreFile, cfg.StoreDriver)
	assert.Equal(t, "database.json", cfg.DBFile)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 30*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "SAR", cfg.PaymentCurrency)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("STORE_DRIVER", " Mongo ")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "https://sals.sa, https://admin.sals.sa ,")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, []string{"https://sals.sa", "https://admin.sals.sa"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.RateLimitEnabled)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Config{StoreDriver: StoreMongo, Port: "5000"}

	err := cfg.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := Config{StoreDriver: "redis", Port: "5000", LLMTimeout: time.Second, PaymentTimeout: time.Second}

	assert.ErrorContains(t, cfg.Validate(), `got "redis"`)
}

func TestCollaboratorWarnings(t *testing.T) {
	assert.Error(t, Config{}.CollaboratorWarnings())

	full := Config{
		OpenAIAPIKey:           "sk",
		TapAPIKey:              "tap",
		WebhookBaseURL:         "https://api.sals.sa",
		SuccessRedirectBaseURL: "https://sals.sa",
	}
	assert.NoError(t, full.CollaboratorWarnings())
}
