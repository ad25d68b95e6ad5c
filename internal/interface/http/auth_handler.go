package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/business-card-api/internal/application"
	"github.com/oksasatya/business-card-api/pkg/response"
)

type AuthHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Login POST /users/login. The token is returned as the plain text body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.WithField("ip", c.ClientIP()).Debug("login rejected")
		_ = c.Error(err)
		return
	}
	response.Text(c, http.StatusOK, token)
}

// Logout POST /users/logout. Revokes the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	uid := actorID(c)
	if err := h.Svc.Logout(c.Request.Context(), uid); err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "logged out"})
}
