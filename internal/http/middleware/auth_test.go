package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/ctxutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/services"
)

type stubAuth struct {
	valid  string
	userID uuid.UUID
}

func (s stubAuth) RegisterUser(context.Context, services.RegisterInput) (*types.User, error) {
	return nil, nil
}

func (s stubAuth) LoginUser(context.Context, string, string) (string, error) { return "", nil }

func (s stubAuth) GetAccessTTL() time.Duration { return time.Hour }

func (s stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	if token != s.valid {
		return ctx, domainagg.NewError(domainagg.CodeUnauthenticated, "Auth.Token", "invalid or expired token", nil)
	}
	rd := ctxutil.GetRequestData(ctx)
	next := ctxutil.RequestData{}
	if rd != nil {
		next = *rd
	}
	next.UserID = s.userID
	next.TokenString = token
	return ctxutil.WithRequestData(ctx, &next), nil
}

func newAuthEngine(t *testing.T, auth stubAuth) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), auth)
	r := gin.New()
	r.Use(AttachRequestContext())
	whoami := func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.String(http.StatusOK, rd.UserID.String()+"|"+rd.RequestID)
	}
	r.GET("/private", am.RequireAuth(), whoami)
	r.GET("/public", am.OptionalAuth(), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	r := newAuthEngine(t, stubAuth{valid: "good", userID: userID})

	cases := []struct {
		name   string
		path   string
		header string
		status int
		user   uuid.UUID
	}{
		{"private without token", "/private", "", http.StatusUnauthorized, uuid.Nil},
		{"private token scheme", "/private", "Token good", http.StatusOK, userID},
		{"private bearer scheme", "/private", "Bearer good", http.StatusOK, userID},
		{"private bad token", "/private", "Token bad", http.StatusUnauthorized, uuid.Nil},
		{"public anonymous", "/public", "", http.StatusOK, uuid.Nil},
		{"public with token", "/public", "token good", http.StatusOK, userID},
		{"public bad token", "/public", "Token bad", http.StatusUnauthorized, uuid.Nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.Header.Set("X-Request-Id", "req-1")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("status: want %d got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") != "req-1" {
				t.Fatalf("request id not echoed: %q", rec.Header().Get("X-Request-Id"))
			}
			if tc.status == http.StatusOK {
				if want := tc.user.String() + "|req-1"; rec.Body.String() != want {
					t.Fatalf("body: want %q got %q", want, rec.Body.String())
				}
			}
		})
	}
}

func TestAuthMiddlewareQueryToken(t *testing.T) {
	userID := uuid.New()
	r := newAuthEngine(t, stubAuth{valid: "good", userID: userID})

	req := httptest.NewRequest(http.MethodGet, "/private?token=good", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200 got %d", rec.Code)
	}
}
