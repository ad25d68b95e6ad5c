package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the only error shape the API returns.
type ErrorBody struct {
	Message string `json:"message"`
}

// JSON writes data as the response body. Success payloads are not wrapped.
func JSON[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// Text writes a plain text body, used for the login token.
func Text(ctx *gin.Context, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.String(status, body)
}

// Error aborts the chain and writes a single message.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{Message: message})
}
