package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/business-card-api/internal/interface/http"
	"github.com/oksasatya/business-card-api/internal/interface/middleware"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

// UserModule wires the user routes.
// Public: POST /users
// Protected: GET /users, GET /users/search, GET|PUT|PATCH|DELETE /users/:id, PUT /users/:id/role
type UserModule struct {
	Handler  *handlers.UserHandler
	JWT      *helpers.JWTManager
	Sessions middleware.SessionValidator
	Redis    *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, sessions middleware.SessionValidator, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Sessions: sessions, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByIP("register"), nil)
	rg.POST("/users", registerLimiter, m.Handler.Register)

	users := rg.Group("/users")
	users.Use(
		middleware.Auth(m.JWT, m.Sessions),
		middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByCaller("users"), nil),
	)
	{
		users.GET("", middleware.RequireAdmin("see all users"), m.Handler.List)
		users.GET("/search", middleware.RequireAdmin("search users"), m.Handler.Search)

		users.GET("/:id", middleware.RequireSelfOrAdmin("id", "see this user"), m.Handler.Get)
		users.PUT("/:id", middleware.RequireSelfOrAdmin("id", "update this user"), m.Handler.Update)
		users.PATCH("/:id", middleware.RequireSelfOrAdmin("id", "change this user's business status"), m.Handler.ToggleBusiness)
		users.DELETE("/:id", middleware.RequireSelfOrAdmin("id", "delete this user"), m.Handler.Delete)

		users.PUT("/:id/role", middleware.RequireAdmin("change a user's role"), m.Handler.SetRole)
	}
}
