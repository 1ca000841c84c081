package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/ctxutil"
)

func newTestAuth(f *fixture) *authService {
	return NewAuthService(f.db, f.log, f.users, "test-secret", time.Hour).(*authService)
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Cook",
		Password:  "s3cret-pass",
	}
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	as := newTestAuth(f)
	ctx := context.Background()

	u, err := as.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)
	require.Equal(t, "cook@example.com", u.Email)
	require.Equal(t, user.RoleUser, u.RoleValue())
	require.NotEqual(t, "s3cret-pass", u.Password)

	dupEmail := validRegistration()
	dupEmail.Username = "other"
	_, err = as.RegisterUser(ctx, dupEmail)
	requireCode(t, err, domainagg.CodeValidation)
	require.Equal(t, "email", domainagg.FieldOf(err))

	dupName := validRegistration()
	dupName.Email = "second@example.com"
	_, err = as.RegisterUser(ctx, dupName)
	requireCode(t, err, domainagg.CodeValidation)
	require.Equal(t, "username", domainagg.FieldOf(err))
}

func TestRegisterUserValidation(t *testing.T) {
	f := newFixture(t)
	as := newTestAuth(f)

	cases := []struct {
		name  string
		edit  func(in *RegisterInput)
		field string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"reserved username", func(in *RegisterInput) { in.Username = "me" }, "username"},
		{"bad username chars", func(in *RegisterInput) { in.Username = "bad name!" }, "username"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "first_name"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "last_name"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegistration()
			tc.edit(&in)
			_, err := as.RegisterUser(context.Background(), in)
			requireCode(t, err, domainagg.CodeValidation)
			require.Equal(t, tc.field, domainagg.FieldOf(err))
		})
	}
}

func TestLoginAndToken(t *testing.T) {
	f := newFixture(t)
	as := newTestAuth(f)
	ctx := context.Background()

	u, err := as.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	_, err = as.LoginUser(ctx, "cook@example.com", "wrong-password")
	requireCode(t, err, domainagg.CodeValidation)
	_, err = as.LoginUser(ctx, "nobody@example.com", "s3cret-pass")
	requireCode(t, err, domainagg.CodeValidation)

	token, err := as.LoginUser(ctx, " COOK@example.com ", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	authed, err := as.SetContextFromToken(ctx, token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(authed)
	require.NotNil(t, rd)
	require.Equal(t, u.ID, rd.UserID)
	require.Equal(t, string(user.RoleUser), rd.Role)
	require.Equal(t, u.ID, ActorFromContext(authed).UserID)

	_, err = as.SetContextFromToken(ctx, token+"x")
	requireCode(t, err, domainagg.CodeUnauthenticated)

	same, err := as.SetContextFromToken(ctx, "")
	require.NoError(t, err)
	require.Nil(t, ctxutil.GetRequestData(same))
}

func TestTokenExpiry(t *testing.T) {
	f := newFixture(t)
	as := newTestAuth(f)
	ctx := context.Background()
	_, err := as.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	as.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := as.LoginUser(ctx, "cook@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = as.SetContextFromToken(ctx, token)
	requireCode(t, err, domainagg.CodeUnauthenticated)
}
