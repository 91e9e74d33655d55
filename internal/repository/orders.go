package repository

import (
	"context"
	"strings"

	"sals-backend/internal/apperr"
	"sals-backend/internal/database"
	"sals-backend/internal/logging"
	"sals-backend/internal/models"
)

type Orders struct {
	store database.Store
	now   Clock
}

func NewOrders(store database.Store) *Orders {
	return &Orders{store: store, now: systemClock}
}

// Create assigns the next id, appends the order and links it to the customer
// with the same email, creating the customer on first contact.
func (r *Orders) Create(ctx context.Context, order models.Order) (string, error) {
	if strings.TrimSpace(order.PersonalInfo.Email) == "" {
		return "", apperr.Validation("personalInfo.email is required")
	}

	var orderID string

	err := r.store.Update(ctx, func(doc *models.Document) error {
		now := FormatTimestamp(r.now())

		created := order
		created.ID = doc.NextOrderID()
		created.CreatedAt = now
		created.UpdatedAt = ""
		created.PaymentStatus = ""
		created.PaymentMethod = ""
		doc.Orders = append(doc.Orders, created)

		info := created.PersonalInfo
		if i := doc.CustomerIndex(info.Email); i >= 0 {
			doc.Customers[i].Orders = append(doc.Customers[i].Orders, created.ID)
			doc.Customers[i].LastOrderDate = now
		} else {
			doc.Customers = append(doc.Customers, models.Customer{
				FullName:      info.FullName,
				Phone:         info.Phone,
				Email:         info.Email,
				Orders:        []string{created.ID},
				LastOrderDate: now,
			})
		}

		orderID = created.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.WithContext(ctx).WithField("module", "orders").WithField("order_id", orderID).Info("order created")
	return orderID, nil
}

func (r *Orders) Get(ctx context.Context, id string) (models.Order, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return models.Order{}, err
	}

	i := doc.OrderIndex(id)
	if i < 0 {
		return models.Order{}, apperr.NotFound("Order not found")
	}
	return doc.Orders[i], nil
}

func (r *Orders) List(ctx context.Context) ([]models.Order, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Orders, nil
}

// Update applies the allow-listed fields in patch and stamps updatedAt.
func (r *Orders) Update(ctx context.Context, id string, patch models.OrderPatch) (models.Order, error) {
	var updated models.Order

	err := r.store.Update(ctx, func(doc *models.Document) error {
		i := doc.OrderIndex(id)
		if i < 0 {
			return apperr.NotFound("Order not found")
		}

		patch.Apply(&doc.Orders[i])
		doc.Orders[i].UpdatedAt = FormatTimestamp(r.now())
		updated = doc.Orders[i]
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}
	return updated, nil
}

// Delete removes the order and strips its id from every customer. Customers
// left with no orders are kept.
func (r *Orders) Delete(ctx context.Context, id string) error {
	err := r.store.Update(ctx, func(doc *models.Document) error {
		i := doc.OrderIndex(id)
		if i < 0 {
			return apperr.NotFound("Order not found")
		}

		kept := make([]models.Order, 0, len(doc.Orders)-1)
		for _, o := range doc.Orders {
			if o.ID != id {
				kept = append(kept, o)
			}
		}
		doc.Orders = kept

		for c := range doc.Customers {
			doc.Customers[c].RemoveOrder(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logging.WithContext(ctx).WithField("module", "orders").WithField("order_id", id).Info("order deleted")
	return nil
}
