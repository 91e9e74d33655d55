// Package payments talks to the Tap gateway for STC Pay charges and applies
// the gateway's webhook callbacks to stored orders.
package payments

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"sals-backend/internal/apperr"
	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

const (
	DefaultBaseURL  = "https://api.tap.company/v2"
	DefaultCurrency = "SAR"
	DefaultTimeout  = 30 * time.Second

	StatusCaptured = "CAPTURED"

	stcPaySource    = "src_sa.stcpay"
	stcPayGateway   = "STC_PAY"
	saudiDialCode   = 966
	defaultName     = "Customer"
	defaultEmail    = "customer@example.com"
	webhookPath     = "/api/stcpay-webhook"
	paymentDonePath = "/payment-success"
)

type TapConfig struct {
	BaseURL         string
	APIKey          string
	Currency        string
	Timeout         time.Duration
	WebhookBaseURL  string
	RedirectBaseURL string
}

// CustomerInfo is the optional customer block sent by the checkout page.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ChargeRequest struct {
	Amount      models.Amount `json:"amount"`
	PhoneNumber string        `json:"phone_number"`
	OrderID     string        `json:"order_id"`
	Customer    CustomerInfo  `json:"customer"`
}

// Charge is the part of the gateway's charge object the API relays.
type Charge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type TapClient struct {
	client *resty.Client
	cfg    TapConfig
}

func NewTapClient(cfg TapConfig) *TapClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &TapClient{client: client, cfg: cfg}
}

// CreateCharge opens an STC Pay charge. The gateway answers by sending an OTP
// to the wallet's phone, which the customer then submits via SubmitOTP.
func (c *TapClient) CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error) {
	if req.Amount <= 0 {
		return Charge{}, apperr.Validation("amount must be positive")
	}
	walletPhone := req.PhoneNumber
	if walletPhone == "" {
		walletPhone = req.Customer.Phone
	}
	if strings.TrimSpace(walletPhone) == "" {
		return Charge{}, apperr.Validation("phone_number is required")
	}

	var charge Charge
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(c.chargeBody(req, walletPhone)).
		SetResult(&charge).
		Post("/charges/")
	if err != nil {
		return Charge{}, apperr.Collaborator(err, "create charge for order %s", req.OrderID)
	}
	if !resp.IsSuccess() {
		logging.WithContext(ctx).WithField("module", "payments").
			WithField("order_id", req.OrderID).
			WithField("status_code", resp.StatusCode()).
			Warn("gateway rejected charge")
		return Charge{}, apperr.Collaborator(nil, "gateway returned %d", resp.StatusCode())
	}
	return charge, nil
}

// SubmitOTP forwards the customer's OTP for chargeID and returns the charge
// with its new status.
func (c *TapClient) SubmitOTP(ctx context.Context, chargeID, otp string) (Charge, error) {
	if strings.TrimSpace(chargeID) == "" {
		return Charge{}, apperr.Validation("charge_id is required")
	}
	if strings.TrimSpace(otp) == "" {
		return Charge{}, apperr.Validation("otp is required")
	}

	body := map[string]any{
		"gateway_response": map[string]any{
			"name": stcPayGateway,
			"response": map[string]any{
				"reference": map[string]any{"otp": otp},
			},
		},
	}

	var charge Charge
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("chargeID", chargeID).
		SetBody(body).
		SetResult(&charge).
		Put("/charges/{chargeID}")
	if err != nil {
		return Charge{}, apperr.Collaborator(err, "submit otp for charge %s", chargeID)
	}
	if !resp.IsSuccess() {
		logging.WithContext(ctx).WithField("module", "payments").
			WithField("charge_id", chargeID).
			WithField("status_code", resp.StatusCode()).
			Warn("gateway rejected otp")
		return Charge{}, apperr.Collaborator(nil, "gateway returned %d", resp.StatusCode())
	}
	return charge, nil
}

func (c *TapClient) chargeBody(req ChargeRequest, walletPhone string) map[string]any {
	first, last := splitName(req.Customer.Name)

	email := req.Customer.Email
	if email == "" {
		email = defaultEmail
	}
	customerPhone := req.Customer.Phone
	if customerPhone == "" {
		customerPhone = walletPhone
	}

	body := map[string]any{
		"amount":             float64(req.Amount),
		"currency":           c.cfg.Currency,
		"customer_initiated": true,
		"threeDSecure":       true,
		"save_card":          false,
		"description":        fmt.Sprintf("Payment for order %s", req.OrderID),
		"metadata":           map[string]any{"order_id": req.OrderID},
		"reference": map[string]any{
			"transaction": "txn_" + req.OrderID,
			"order":       req.OrderID,
		},
		"receipt": map[string]any{"email": true, "sms": true},
		"customer": map[string]any{
			"first_name": first,
			"last_name":  last,
			"email":      email,
			"phone": map[string]any{
				"country_code": saudiDialCode,
				"number":       NormalizePhone(customerPhone),
			},
		},
		"source": map[string]any{
			"id": stcPaySource,
			"phone": map[string]any{
				"country_code": fmt.Sprint(saudiDialCode),
				"number":       NormalizePhone(walletPhone),
			},
		},
	}

	if c.cfg.WebhookBaseURL != "" {
		body["post"] = map[string]any{"url": strings.TrimRight(c.cfg.WebhookBaseURL, "/") + webhookPath}
	}
	if c.cfg.RedirectBaseURL != "" {
		body["redirect"] = map[string]any{
			"url": strings.TrimRight(c.cfg.RedirectBaseURL, "/") + paymentDonePath + "?order_id=" + url.QueryEscape(req.OrderID),
		}
	}
	return body
}

// NormalizePhone drops one leading zero from a local Saudi number.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	return strings.TrimPrefix(phone, "0")
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return defaultName, defaultName
	}
	return parts[0], parts[len(parts)-1]
}
