package modules

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthModule struct {
	PingDB func(ctx context.Context) error
}

func NewHealthModule(ping func(ctx context.Context) error) *HealthModule {
	return &HealthModule{PingDB: ping}
}

// Register GET /healthz. The process is up even when the database is not,
// so a failed ping reports 503 with "database":"down".
func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		if m.PingDB != nil {
			if err := m.PingDB(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})
}
