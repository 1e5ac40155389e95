package ordersserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/sundus-book-orders/internal/domains/orders/domain"
)

// HealthAPI reports liveness and process uptime.
type HealthAPI struct {
	started time.Time
	now     func() time.Time
}

// NewHealthAPI measures uptime from started.
func NewHealthAPI(started time.Time) HealthAPI {
	return HealthAPI{started: started, now: time.Now}
}

// Get /health
func (api *HealthAPI) Health(c *gin.Context) {
	now := time.Now
	if api.now != nil {
		now = api.now
	}
	current := now()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "✅ Server running",
		"timestamp": domain.FormatTimestamp(current),
		"uptime":    current.Sub(api.started).Seconds(),
	})
}
