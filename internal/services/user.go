package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*UserView, error)
	Get(ctx context.Context, id uuid.UUID) (*UserView, error)
	List(ctx context.Context, limit, offset int) (*Page[UserView], error)
	SetPassword(ctx context.Context, currentPassword, newPassword string) error
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	subs     *repos.SubscriptionRepo
	fanOut   int
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, subs *repos.SubscriptionRepo, parallelism int) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		subs:     subs,
		fanOut:   parallelism,
	}
}

func unauthenticated(op string) error {
	return domainagg.NewError(domainagg.CodeUnauthenticated, op, "authentication credentials were not provided", nil)
}

func (us *userService) GetMe(ctx context.Context) (*UserView, error) {
	const op = "User.Me"
	actor := ActorFromContext(ctx)
	if !actor.Authenticated() {
		return nil, unauthenticated(op)
	}
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, actor.UserID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if u == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "user not found", nil)
	}
	v := newUserView(u, false)
	return &v, nil
}

func (us *userService) Get(ctx context.Context, id uuid.UUID) (*UserView, error) {
	const op = "User.Get"
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if u == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "user not found", nil)
	}
	following, err := us.subs.ContainsAny(dbc, ActorFromContext(ctx).UserID, []uuid.UUID{u.ID})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	v := newUserView(u, following[u.ID])
	return &v, nil
}

func (us *userService) List(ctx context.Context, limit, offset int) (*Page[UserView], error) {
	const op = "User.List"
	var total int64
	g, gctx := newGroup(ctx, us.fanOut)
	g.Go(func() error {
		n, err := us.userRepo.Count(dbctx.Context{Ctx: gctx})
		total = n
		return err
	})
	var rows []UserView
	g.Go(func() error {
		users, err := us.userRepo.List(dbctx.Context{Ctx: gctx}, limit, offset)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		following, err := us.subs.ContainsAny(dbctx.Context{Ctx: gctx}, ActorFromContext(ctx).UserID, ids)
		if err != nil {
			return err
		}
		rows = make([]UserView, 0, len(users))
		for _, u := range users {
			rows = append(rows, newUserView(u, following[u.ID]))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &Page[UserView]{Count: total, Results: rows}, nil
}

func (us *userService) SetPassword(ctx context.Context, currentPassword, newPassword string) error {
	const op = "User.SetPassword"
	actor := ActorFromContext(ctx)
	if !actor.Authenticated() {
		return unauthenticated(op)
	}
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByID(dbc, actor.UserID)
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if u == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, "user not found", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)) != nil {
		return domainagg.NewFieldError(op, "current_password", "invalid password")
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLength {
		return domainagg.NewFieldError(op, "new_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if err := us.userRepo.UpdatePassword(dbc, u.ID, string(hash)); err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	us.log.Info("password changed", "user_id", u.ID)
	return nil
}
