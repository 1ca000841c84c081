package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/ctxutil"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

const (
	maxNameLength     = 150
	maxEmailLength    = 254
	minPasswordLength = 8
)

type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	validate     *validator.Validate
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		validate:     validator.New(),
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	const op = "Auth.Register"
	u := &types.User{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Username:  strings.TrimSpace(in.Username),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      string(user.RoleUser),
	}
	if err := as.validateRegistration(op, u, in.Password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	u.Password = string(hash)

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if taken, err := as.userRepo.EmailExists(dbc, u.Email); err != nil {
			return err
		} else if taken {
			return domainagg.NewFieldError(op, "email", "user with this email already exists")
		}
		if taken, err := as.userRepo.UsernameExists(dbc, u.Username); err != nil {
			return err
		} else if taken {
			return domainagg.NewFieldError(op, "username", "user with this username already exists")
		}
		_, err := as.userRepo.Create(dbc, []*types.User{u})
		return err
	})
	if err != nil {
		var aggErr *domainagg.Error
		if errors.As(err, &aggErr) {
			return nil, err
		}
		if aggregates.IsUniqueViolation(err) {
			return nil, domainagg.NewFieldError(op, "email", "user with this email or username already exists")
		}
		as.log.Error("register user failed", "error", err)
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	as.log.Info("user registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) validateRegistration(op string, u *types.User, password string) error {
	if u.Email == "" {
		return domainagg.NewFieldError(op, "email", "email is required")
	}
	if len(u.Email) > maxEmailLength || as.validate.Var(u.Email, "email") != nil {
		return domainagg.NewFieldError(op, "email", "enter a valid email address")
	}
	if err := user.ValidateUsername(u.Username); err != nil {
		return domainagg.NewFieldError(op, "username", err.Error())
	}
	if u.FirstName == "" || utf8.RuneCountInString(u.FirstName) > maxNameLength {
		return domainagg.NewFieldError(op, "first_name", fmt.Sprintf("first name is required and at most %d characters", maxNameLength))
	}
	if u.LastName == "" || utf8.RuneCountInString(u.LastName) > maxNameLength {
		return domainagg.NewFieldError(op, "last_name", fmt.Sprintf("last name is required and at most %d characters", maxNameLength))
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domainagg.NewFieldError(op, "password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, error) {
	const op = "Auth.Login"
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domainagg.NewFieldError(op, "email", "email and password are required")
	}
	users, err := as.userRepo.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return "", domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if len(users) == 0 {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "unable to log in with provided credentials", nil)
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", domainagg.NewError(domainagg.CodeValidation, op, "unable to log in with provided credentials", nil)
	}
	tok, err := as.generateAccessToken(u)
	if err != nil {
		return "", domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return tok, nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates tokenString and attaches the caller to ctx.
// The role is reloaded from storage so a demotion takes effect immediately.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Auth.Token"
	if tokenString == "" {
		return ctx, nil
	}
	unauthenticated := func(msg string) error {
		return domainagg.NewError(domainagg.CodeUnauthenticated, op, msg, nil)
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, unauthenticated("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, unauthenticated("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, unauthenticated("invalid user id in token")
	}
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return ctx, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if u == nil {
		return ctx, unauthenticated("user not found")
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	}
	next := *rd
	next.TokenString = tokenString
	next.UserID = u.ID
	next.Role = u.Role
	return ctxutil.WithRequestData(ctx, &next), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
