package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/business-card-api/internal/container"
	"github.com/oksasatya/business-card-api/internal/interface/middleware"
	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/validation"
)

var errRouteNotFound = apperror.NotFound("route not found")

// NewEngine assembles the Gin engine: global middleware, error translation
// and every module from the container.
func NewEngine(ctr *container.Container) *gin.Engine {
	cfg := ctr.Config
	validation.Init()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(ctr.Logger, cfg.HTTPLogEnabled),
		middleware.Recovery(ctr.Logger),
	)
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "x-auth-token", middleware.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}
	r.Use(middleware.ErrorTranslator(ctr.Logger))
	r.NoRoute(func(c *gin.Context) { _ = c.Error(errRouteNotFound) })

	reg := NewRegistry(r, "")
	InitModules(reg, ctr)
	reg.RegisterAll()
	return r
}
