package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/repository"
)

func ListCustomers(customers *repository.Customers) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		list, err := customers.List(ctx)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}
