package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/pkg/apperror"
	"github.com/oksasatya/business-card-api/pkg/helpers"
)

var (
	ErrMissingToken = apperror.Unauthenticated("Authentication Error: please login")
	ErrInvalidToken = apperror.Unauthenticated("Authentication Error: invalid or expired token")
)

// SessionValidator confirms that a token's session is still the live one.
type SessionValidator interface {
	Validate(ctx context.Context, userID, sid string) error
}

// Auth verifies the access token and stores the caller identity in the Gin
// context. The token is read from "Authorization: Bearer <token>"; a bare
// token in Authorization and the x-auth-token header are accepted as well.
// When sessions is set the token's session id must match the stored one.
func Auth(jwt *helpers.JWTManager, sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			fail(c, ErrMissingToken)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			fail(c, ErrInvalidToken)
			return
		}
		if sessions != nil {
			if err := sessions.Validate(c.Request.Context(), claims.UserID, claims.SessionID); err != nil {
				fail(c, err)
				return
			}
		}

		setIdentity(c, entity.Identity{
			UserID:     claims.UserID,
			IsAdmin:    claims.IsAdmin,
			IsBusiness: claims.IsBusiness,
			SessionID:  claims.SessionID,
		})
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if h := strings.TrimSpace(c.GetHeader("Authorization")); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return h
	}
	return strings.TrimSpace(c.GetHeader("x-auth-token"))
}
