package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/models"
	"sals-backend/internal/repository"
)

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(orders *repository.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var order models.Order
		if err := c.ShouldBindJSON(&order); err != nil {
			respondWithError(c, http.StatusBadRequest, route, bindingMessage(err))
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		id, err := orders.Create(ctx, order)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

/* =========================
   READ ORDERS
========================= */

func GetOrder(orders *repository.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := orders.Get(ctx, c.Param("id"))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func ListOrders(orders *repository.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := orders.List(ctx)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

/* =========================
   UPDATE / DELETE ORDER
========================= */

func UpdateOrder(orders *repository.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"
		defer handlePanic(c, route)

		var patch models.OrderPatch
		if err := bindOptionalJSON(c, &patch); err != nil {
			respondWithError(c, http.StatusBadRequest, route, msgInvalidBody)
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		order, err := orders.Update(ctx, c.Param("id"), patch)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

func DeleteOrder(orders *repository.Orders) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := orders.Delete(ctx, c.Param("id")); err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
