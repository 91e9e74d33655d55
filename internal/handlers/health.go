package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/database"
)

// Healthz answers 503 when the store backend cannot be reached.
func Healthz(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /healthz"

		if err := ensureStoreAvailable(c.Request.Context(), store); err != nil {
			_ = c.Error(err)
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
