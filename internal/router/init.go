package router

import (
	"github.com/oksasatya/business-card-api/internal/container"
	handlers "github.com/oksasatya/business-card-api/internal/interface/http"
	"github.com/oksasatya/business-card-api/internal/interface/middleware"
	"github.com/oksasatya/business-card-api/internal/router/modules"
)

// InitModules builds handlers from the container and registers every module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, ctr *container.Container) {
	cfg := ctr.Config

	var sessions middleware.SessionValidator
	if ctr.Sessions != nil {
		sessions = ctr.Sessions
	}

	userHandler := handlers.NewUserHandler(ctr.Service, ctr.Logger)
	authHandler := handlers.NewAuthHandler(ctr.Service, ctr.Logger)

	r.Add(
		modules.NewHealthModule(ctr.PingDB),
		modules.NewAuthModule(authHandler, ctr.JWT, sessions, ctr.Redis, cfg.LoginRateLimit),
		modules.NewUserModule(userHandler, ctr.JWT, sessions, ctr.Redis),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(ctr.Redis))
	}
}
