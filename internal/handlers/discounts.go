package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/models"
	"sals-backend/internal/repository"
)

type createDiscountRequest struct {
	ID         string        `json:"id"`
	Code       string        `json:"code"`
	Percentage models.Amount `json:"percentage"`
	UsageCount models.Amount `json:"usageCount"`
	ExpiryDate string        `json:"expiryDate"`
	Status     string        `json:"status"`
}

func ListDiscounts(discounts *repository.Discounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /discounts"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := discounts.List(ctx)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func CreateDiscount(discounts *repository.Discounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /discounts"
		defer handlePanic(c, route)

		var req createDiscountRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		discount, err := discounts.Create(ctx, repository.DiscountInput{
			ID:         req.ID,
			Code:       req.Code,
			Percentage: req.Percentage,
			UsageCount: req.UsageCount,
			ExpiryDate: req.ExpiryDate,
			Status:     req.Status,
		})
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "discount": discount})
	}
}

// UpdateDiscount accepts either the discount id or its code in the path.
func UpdateDiscount(discounts *repository.Discounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /discounts/:id"
		defer handlePanic(c, route)

		var patch models.DiscountPatch
		if err := bindOptionalJSON(c, &patch); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		discount, err := discounts.Update(ctx, c.Param("id"), patch)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "discount": discount})
	}
}

func DeleteDiscount(discounts *repository.Discounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /discounts/:id"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := discounts.Delete(ctx, c.Param("id")); err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
