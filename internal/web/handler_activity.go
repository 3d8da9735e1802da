package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"prestamos-admin/internal/store"
)

const maxActivityLimit = 200

// ListActivity returns the latest changes made through this interface.
func (h *Handler) ListActivity(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	limit := store.DefaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxActivityLimit)
	}

	activity, err := h.store.ListActivity(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"actividad": activity})
}

// Healthz reports liveness and whether the local database answers.
func (h *Handler) Healthz(c *gin.Context) {
	if h.store != nil {
		sqlDB, err := h.store.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
