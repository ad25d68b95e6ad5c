package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/business-card-api/internal/interface/http"
	"github.com/oksasatya/business-card-api/internal/interface/middleware"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

type AuthModule struct {
	Handler    *handlers.AuthHandler
	JWT        *helpers.JWTManager
	Sessions   middleware.SessionValidator
	Redis      *redis.Client
	LoginLimit int
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, sessions middleware.SessionValidator, rdb *redis.Client, loginLimit int) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Sessions: sessions, Redis: rdb, LoginLimit: loginLimit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, m.LoginLimit, time.Minute, middleware.KeyByIP("login"), nil)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)
	rg.POST("/users/logout", middleware.Auth(m.JWT, m.Sessions), m.Handler.Logout)
}
