package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/deploydash/pkg/response"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health is public and does not touch dependencies.
func Health(now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, healthResponse{
			Status:    "online",
			Timestamp: now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
	}
}
