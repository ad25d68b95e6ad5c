package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/business-card-api/internal/domain/access"
	"github.com/oksasatya/business-card-api/pkg/apperror"
)

// RequireSelfOrAdmin lets the request through when the caller owns the
// record named by the path parameter or is an admin. Must run after Auth.
func RequireSelfOrAdmin(param, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			fail(c, ErrMissingToken)
			return
		}
		if access.Decide(id, c.Param(param)) != access.Allow {
			fail(c, apperror.Forbidden("Authorization Error: only the registered user or an admin can "+action))
			return
		}
		c.Next()
	}
}

// RequireAdmin lets admins through only. Must run after Auth.
func RequireAdmin(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			fail(c, ErrMissingToken)
			return
		}
		if access.DecideAdmin(id) != access.Allow {
			fail(c, apperror.Forbidden("Authorization Error: only an admin can "+action))
			return
		}
		c.Next()
	}
}
