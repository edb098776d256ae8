package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health returns the health status of the service, including database
// connectivity and uptime.
func (s *Server) Health(c *gin.Context) {
	healthStatus := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	uptime := "unknown"
	if startTime, exists := c.Get("serverStartTime"); exists {
		if st, ok := startTime.(time.Time); ok {
			uptime = time.Since(st).Round(time.Second).String()
		}
	}
	healthStatus["uptime"] = uptime

	healthStatus["database"] = "ok"
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			healthStatus["status"] = "unhealthy"
			healthStatus["database"] = "unavailable"
			c.JSON(http.StatusServiceUnavailable, healthStatus)
			return
		}
	}

	c.JSON(http.StatusOK, healthStatus)
}
