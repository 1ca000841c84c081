package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
)

// StatusFor maps an aggregate error code to its HTTP status.
func StatusFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation, domainagg.CodeConflict:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodePermissionDenied:
		return http.StatusForbidden
	case domainagg.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondAggregateError writes err with the status of its code. Internal
// failures never expose their cause.
func RespondAggregateError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusFor(code)
	msg := domainagg.MessageOf(err)
	if status == http.StatusInternalServerError {
		msg = "internal server error"
		_ = c.Error(err)
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(code),
			Field:   domainagg.FieldOf(err),
		},
	})
}
