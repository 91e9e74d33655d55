package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/stats"
)

func GetStats(aggregator *stats.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /stats"
		defer handlePanic(c, route)

		ctx, cancel := storeContext(c)
		defer cancel()

		summary, err := aggregator.Compute(ctx)
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
