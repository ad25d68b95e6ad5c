package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/business-card-api/internal/application"
	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/interface/middleware"
	"github.com/oksasatya/business-card-api/pkg/response"
	"github.com/oksasatya/business-card-api/pkg/validation"
)

// UserHandler serves the /users routes. Authentication and the
// self-or-admin check run as middleware before these handlers.
type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// bind decodes and validates the body. On failure the first validation
// error is recorded and false is returned.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(validation.FirstError(err))
		return false
	}
	return true
}

func actorID(c *gin.Context) string {
	id, _ := middleware.IdentityFrom(c)
	return id.UserID
}

// Register POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), entity.Normalize(req.toEntity()))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": u.ID, "is_business": u.IsBusiness}).Info("user registered")
	response.JSON(c, http.StatusCreated, toUserResponse(u))
}

// List GET /users (admin)
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponses(users))
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

// Update PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req updateRequest
	if !bind(c, &req) {
		return
	}
	patch := entity.NormalizePatch(req.toPatch())
	u, err := h.Svc.Update(c.Request.Context(), actorID(c), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

// ToggleBusiness PATCH /users/:id
func (h *UserHandler) ToggleBusiness(c *gin.Context) {
	u, err := h.Svc.ToggleBusiness(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

// SetRole PUT /users/:id/role (admin)
func (h *UserHandler) SetRole(c *gin.Context) {
	var req roleRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.SetAdmin(c.Request.Context(), actorID(c), c.Param("id"), *req.IsAdmin)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": u.ID, "actor_id": actorID(c), "is_admin": u.IsAdmin}).Info("user role changed")
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

// Delete DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	u, err := h.Svc.Delete(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"user_id": u.ID, "actor_id": actorID(c)}).Info("user deleted")
	response.JSON(c, http.StatusOK, toUserResponse(u))
}

// Search GET /users/search?q=&size= (admin)
func (h *UserHandler) Search(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		size = 10
	}
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"query": c.Query("q"), "hits": hits})
}
