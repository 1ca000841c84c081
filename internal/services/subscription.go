package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

// FollowingQuery pages the caller's subscriptions. RecipesLimit bounds the
// per-author preview; nil falls back to the service default (0 = no bound).
type FollowingQuery struct {
	Limit        int
	Offset       int
	RecipesLimit *int
}

type SubscriptionService interface {
	Follow(ctx context.Context, authorID uuid.UUID, recipesLimit *int) (*AuthorView, error)
	Unfollow(ctx context.Context, authorID uuid.UUID) error
	ListFollowing(ctx context.Context, q FollowingQuery) (*Page[AuthorView], error)
}

type subscriptionService struct {
	log                 *logger.Logger
	graph               domainagg.SubscriptionGraph
	userRepo            repos.UserRepo
	recipeRepo          repos.RecipeRepo
	defaultRecipesLimit int
	fanOut              int
}

func NewSubscriptionService(
	log *logger.Logger,
	graph domainagg.SubscriptionGraph,
	userRepo repos.UserRepo,
	recipeRepo repos.RecipeRepo,
	defaultRecipesLimit int,
	parallelism int,
) SubscriptionService {
	return &subscriptionService{
		log:                 log.With("service", "SubscriptionService"),
		graph:               graph,
		userRepo:            userRepo,
		recipeRepo:          recipeRepo,
		defaultRecipesLimit: defaultRecipesLimit,
		fanOut:              parallelism,
	}
}

func (s *subscriptionService) recipesLimit(requested *int) int {
	if requested != nil && *requested >= 0 {
		return *requested
	}
	return s.defaultRecipesLimit
}

func (s *subscriptionService) Follow(ctx context.Context, authorID uuid.UUID, recipesLimit *int) (*AuthorView, error) {
	const op = "Subscription.Follow"
	if err := s.graph.Follow(ctx, ActorFromContext(ctx), authorID); err != nil {
		return nil, err
	}
	author, err := s.userRepo.GetByID(dbctx.Context{Ctx: ctx}, authorID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if author == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "user not found", nil)
	}
	views, err := s.project(ctx, []*types.User{author}, s.recipesLimit(recipesLimit))
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &views[0], nil
}

func (s *subscriptionService) Unfollow(ctx context.Context, authorID uuid.UUID) error {
	return s.graph.Unfollow(ctx, ActorFromContext(ctx), authorID)
}

func (s *subscriptionService) ListFollowing(ctx context.Context, q FollowingQuery) (*Page[AuthorView], error) {
	const op = "Subscription.List"
	actor := ActorFromContext(ctx)
	if d := authz.Authorize(actor, authz.Resource{Kind: authz.ResourceSubscription, OwnerID: actor.UserID}, authz.ActionFollow); !d.Allowed {
		return nil, unauthenticated(op)
	}
	dbc := dbctx.Context{Ctx: ctx}
	total, err := s.userRepo.CountFollowing(dbc, actor.UserID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	authors, err := s.userRepo.ListFollowing(dbc, actor.UserID, q.Limit, q.Offset)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	views, err := s.project(ctx, authors, s.recipesLimit(q.RecipesLimit))
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &Page[AuthorView]{Count: total, Results: views}, nil
}

// project builds author cards: one grouped count query plus one preview
// query per author, run through the bounded group.
func (s *subscriptionService) project(ctx context.Context, authors []*types.User, recipesLimit int) ([]AuthorView, error) {
	out := make([]AuthorView, len(authors))
	if len(authors) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}

	var counts map[uuid.UUID]int64
	previews := make([][]*types.Recipe, len(authors))
	g, gctx := newGroup(ctx, s.fanOut)
	g.Go(func() error {
		c, err := s.recipeRepo.CountByAuthors(dbctx.Context{Ctx: gctx}, ids)
		counts = c
		return err
	})
	for i, a := range authors {
		i, a := i, a
		g.Go(func() error {
			rows, err := s.recipeRepo.ListByAuthor(dbctx.Context{Ctx: gctx}, a.ID, recipesLimit)
			previews[i] = rows
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, a := range authors {
		v := AuthorView{
			UserView:     newUserView(a, true),
			Recipes:      make([]RecipeShort, 0, len(previews[i])),
			RecipesCount: counts[a.ID],
		}
		for _, r := range previews[i] {
			v.Recipes = append(v.Recipes, newRecipeShort(r))
		}
		out[i] = v
	}
	return out, nil
}
