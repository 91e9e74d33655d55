package repository

import (
	"context"

	"sals-backend/internal/database"
	"sals-backend/internal/models"
)

type Customers struct {
	store database.Store
}

func NewCustomers(store database.Store) *Customers {
	return &Customers{store: store}
}

func (r *Customers) List(ctx context.Context) ([]models.Customer, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Customers, nil
}
