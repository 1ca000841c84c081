package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
)

func TestRespondAggregateError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		want   APIError
	}{
		{
			name:   "field validation",
			err:    domainagg.NewFieldError("Recipe.Create", "cooking_time", "must be at least 1"),
			status: http.StatusBadRequest,
			want:   APIError{Message: "must be at least 1", Code: "validation", Field: "cooking_time"},
		},
		{
			name:   "conflict",
			err:    domainagg.NewError(domainagg.CodeConflict, "Favorites.Add", "already exists", nil),
			status: http.StatusBadRequest,
			want:   APIError{Message: "already exists", Code: "conflict"},
		},
		{
			name:   "not found",
			err:    domainagg.NewError(domainagg.CodeNotFound, "Cart.Remove", "not present", nil),
			status: http.StatusNotFound,
			want:   APIError{Message: "not present", Code: "not_found"},
		},
		{
			name:   "permission",
			err:    domainagg.NewError(domainagg.CodePermissionDenied, "Recipe.Update", "not the author", nil),
			status: http.StatusForbidden,
			want:   APIError{Message: "not the author", Code: "permission_denied"},
		},
		{
			name:   "unauthenticated",
			err:    domainagg.NewError(domainagg.CodeUnauthenticated, "Recipe.Create", "login required", nil),
			status: http.StatusUnauthorized,
			want:   APIError{Message: "login required", Code: "unauthenticated"},
		},
		{
			name:   "retryable",
			err:    domainagg.NewError(domainagg.CodeRetryable, "Recipe.Create", "try again", nil),
			status: http.StatusServiceUnavailable,
			want:   APIError{Message: "try again", Code: "retryable"},
		},
		{
			name:   "plain error hides cause",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			want:   APIError{Message: "internal server error", Code: "internal"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondAggregateError(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("status: want %d got %d", tc.status, rec.Code)
			}
			var body ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tc.want {
				t.Fatalf("body: want %+v got %+v", tc.want, body.Error)
			}
		})
	}
}
