package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
)

const (
	CtxIdentityKey  = "identity"
	CtxUserIDKey    = "userID"
	CtxRequestIDKey = "request_id"
	CtxRealIPKey    = "real_ip"
)

// IdentityFrom returns the caller decoded by Auth.
func IdentityFrom(c *gin.Context) (entity.Identity, bool) {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return entity.Identity{}, false
	}
	id, ok := v.(entity.Identity)
	return id, ok
}

func setIdentity(c *gin.Context, id entity.Identity) {
	c.Set(CtxIdentityKey, id)
	c.Set(CtxUserIDKey, id.UserID)
}

// fail records err for ErrorTranslator and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
