package repository

import (
	"context"
	"strings"

	"sals-backend/internal/apperr"
	"sals-backend/internal/database"
	"sals-backend/internal/models"
)

type Discounts struct {
	store database.Store
}

func NewDiscounts(store database.Store) *Discounts {
	return &Discounts{store: store}
}

// DiscountInput is the create payload after decoding.
type DiscountInput struct {
	ID         string
	Code       string
	Percentage models.Amount
	UsageCount models.Amount
	ExpiryDate string
	Status     string
}

func (r *Discounts) List(ctx context.Context) ([]models.Discount, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Discounts, nil
}

func (r *Discounts) Create(ctx context.Context, in DiscountInput) (models.Discount, error) {
	if strings.TrimSpace(in.Code) == "" {
		return models.Discount{}, apperr.Validation("code is required")
	}

	discount := models.Discount{
		ID:         in.ID,
		Code:       in.Code,
		Percentage: in.Percentage.Int(),
		UsageCount: in.UsageCount.Int(),
		ExpiryDate: in.ExpiryDate,
		Status:     in.Status,
	}
	if discount.ID == "" {
		discount.ID = discount.Code
	}
	if discount.Status == "" {
		discount.Status = models.StatusActive
	}

	err := r.store.Update(ctx, func(doc *models.Document) error {
		if doc.DiscountIndexByCode(discount.Code) >= 0 {
			return apperr.Conflict("code already exists")
		}
		if doc.DiscountIndexByID(discount.ID) >= 0 {
			return apperr.Conflict("id already exists")
		}
		doc.Discounts = append(doc.Discounts, discount)
		return nil
	})
	if err != nil {
		return models.Discount{}, err
	}
	return discount, nil
}

// Update looks the discount up by id first and by code second. Renaming the
// code onto one held by another discount is rejected.
func (r *Discounts) Update(ctx context.Context, key string, patch models.DiscountPatch) (models.Discount, error) {
	var updated models.Discount

	err := r.store.Update(ctx, func(doc *models.Document) error {
		i := doc.DiscountIndexByID(key)
		if i < 0 {
			i = doc.DiscountIndexByCode(key)
		}
		if i < 0 {
			return apperr.NotFound("Discount not found")
		}

		if patch.Code != nil {
			if strings.TrimSpace(*patch.Code) == "" {
				return apperr.Validation("code cannot be empty")
			}
			if j := doc.DiscountIndexByCode(*patch.Code); j >= 0 && j != i {
				return apperr.Conflict("code already exists")
			}
		}

		patch.Apply(&doc.Discounts[i])
		updated = doc.Discounts[i]
		return nil
	})
	if err != nil {
		return models.Discount{}, err
	}
	return updated, nil
}

// Delete removes every discount whose id or code equals key.
func (r *Discounts) Delete(ctx context.Context, key string) error {
	return r.store.Update(ctx, func(doc *models.Document) error {
		kept := make([]models.Discount, 0, len(doc.Discounts))
		for _, d := range doc.Discounts {
			if d.ID == key || d.Code == key {
				continue
			}
			kept = append(kept, d)
		}
		if len(kept) == len(doc.Discounts) {
			return apperr.NotFound("Discount not found")
		}
		doc.Discounts = kept
		return nil
	})
}
