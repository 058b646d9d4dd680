package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the single error shape of the API.
type ErrorBody struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes payload as-is; the API does not wrap successful responses.
func Success[T any](ctx *gin.Context, status int, payload T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, payload)
}

// Message writes {"message": msg} merged with extra top-level fields.
func Message(ctx *gin.Context, status int, msg string, extra gin.H) {
	body := gin.H{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	Success(ctx, status, body)
}

// Error aborts the chain and writes an ErrorBody.
func Error(ctx *gin.Context, status int, message string, details interface{}) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{Message: message, Details: details}
	ctx.AbortWithStatusJSON(status, body)
	return body
}
