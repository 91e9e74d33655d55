package payments

import (
	"bytes"
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/qmuntal/stateless"

	"sals-backend/internal/database"
	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

// Stored payment statuses. An empty status means the order was never charged.
const (
	PaymentUnpaid  = ""
	PaymentPending = "pending"
	PaymentFailed  = "failed"
	PaymentPaid    = "paid"

	MethodSTCPay = "stcpay"
)

const triggerCapture = "capture"

var errOrderMissing = errors.New("order missing")

// WebhookEvent is the subset of the gateway's charge callback we act on.
type WebhookEvent struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Metadata WebhookMetadata `json:"metadata"`
}

// WebhookMetadata echoes the metadata sent with the charge. The gateway may
// return order_id as a number, so it is decoded loosely; metadata that is not
// an object carries no order reference.
type WebhookMetadata struct {
	OrderID string `json:"order_id"`
}

func (m *WebhookMetadata) UnmarshalJSON(data []byte) error {
	*m = WebhookMetadata{}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	m.OrderID = looseString(raw["order_id"])
	return nil
}

// looseString renders a JSON string or number as text. Anything else is empty.
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw)
	default:
		return ""
	}
}

type Reconciler struct {
	store database.Store
}

func NewReconciler(store database.Store) *Reconciler {
	return &Reconciler{store: store}
}

// ApplyWebhook marks the referenced order as paid when the charge was
// captured. Other statuses, a missing order id and unknown orders are ignored.
// It reports whether an order was updated; only storage failures are errors.
func (r *Reconciler) ApplyWebhook(ctx context.Context, event WebhookEvent) (bool, error) {
	log := logging.WithContext(ctx).WithField("module", "payments").
		WithField("charge_id", event.ID).
		WithField("charge_status", event.Status)

	if event.Status != StatusCaptured {
		log.Info("webhook ignored, charge not captured")
		return false, nil
	}
	orderID := event.Metadata.OrderID
	if orderID == "" {
		log.Warn("captured charge without order id")
		return false, nil
	}

	err := r.store.Update(ctx, func(doc *models.Document) error {
		i := doc.OrderIndex(orderID)
		if i < 0 {
			return errOrderMissing
		}
		return capture(&doc.Orders[i])
	})
	if errors.Is(err, errOrderMissing) {
		log.WithField("order_id", orderID).Warn("captured charge for unknown order")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	log.WithField("order_id", orderID).Info("order marked as paid")
	return true, nil
}

func capture(order *models.Order) error {
	current := order.PaymentStatus
	switch current {
	case PaymentUnpaid, PaymentPending, PaymentFailed, PaymentPaid:
	default:
		logging.WithModule("payments").
			WithField("order_id", order.ID).
			WithField("payment_status", current).
			Warn("unknown payment status, treating as unpaid")
		current = PaymentUnpaid
	}

	machine := newPaymentMachine(current)
	if err := machine.Fire(triggerCapture); err != nil {
		return err
	}

	order.PaymentStatus = machine.MustState().(string)
	order.PaymentMethod = MethodSTCPay
	return nil
}

// newPaymentMachine allows capture from every non-paid state. Capturing an
// already paid order is a reentry so duplicate webhooks are harmless.
func newPaymentMachine(initial string) *stateless.StateMachine {
	machine := stateless.NewStateMachine(initial)

	machine.Configure(PaymentUnpaid).
		Permit(triggerCapture, PaymentPaid)

	machine.Configure(PaymentPending).
		Permit(triggerCapture, PaymentPaid)

	machine.Configure(PaymentFailed).
		Permit(triggerCapture, PaymentPaid)

	machine.Configure(PaymentPaid).
		PermitReentry(triggerCapture)

	return machine
}
