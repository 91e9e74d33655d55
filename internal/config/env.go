package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate reports every setting that prevents startup.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.StoreDriver {
	case StoreFile:
		if c.DBFile == "" {
			result = multierror.Append(result, errors.New("DB_FILE is required when STORE_DRIVER=file"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			result = multierror.Append(result, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
		if c.DBName == "" {
			result = multierror.Append(result, errors.New("DB_NAME is required when STORE_DRIVER=mongo"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreFile, StoreMongo, c.StoreDriver))
	}

	if c.Port == "" {
		result = multierror.Append(result, errors.New("PORT is required"))
	}
	if c.LLMTimeout <= 0 {
		result = multierror.Append(result, errors.New("LLM_TIMEOUT must be positive"))
	}
	if c.PaymentTimeout <= 0 {
		result = multierror.Append(result, errors.New("PAYMENT_TIMEOUT must be positive"))
	}

	return result.ErrorOrNil()
}

// CollaboratorWarnings lists missing credentials for the résumé and payment
// collaborators. The order endpoints work without them, so these are logged
// rather than fatal.
func (c Config) CollaboratorWarnings() error {
	var result *multierror.Error

	if c.OpenAIAPIKey == "" {
		result = multierror.Append(result, errors.New("OPENAI_API_KEY is not set, CV analysis will use heuristic scoring"))
	}
	if c.TapAPIKey == "" {
		result = multierror.Append(result, errors.New("TAP_API_KEY is not set, STC Pay requests will be rejected by the gateway"))
	}
	if c.WebhookBaseURL == "" {
		result = multierror.Append(result, errors.New("WEBHOOK_BASE_URL is not set, charges will not carry a webhook url"))
	}
	if c.SuccessRedirectBaseURL == "" {
		result = multierror.Append(result, errors.New("SUCCESS_REDIRECT_BASE_URL is not set, charges will not carry a redirect url"))
	}

	return result.ErrorOrNil()
}
