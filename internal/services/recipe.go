package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
)

type RecipeQuery struct {
	AuthorID         uuid.UUID
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

type RecipeService interface {
	Create(ctx context.Context, in domainagg.CreateRecipeInput) (*RecipeView, error)
	Update(ctx context.Context, id uuid.UUID, in domainagg.UpdateRecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*RecipeView, error)
	List(ctx context.Context, q RecipeQuery) (*Page[RecipeView], error)
	Short(ctx context.Context, id uuid.UUID) (*RecipeShort, error)
}

type recipeService struct {
	db         *gorm.DB
	log        *logger.Logger
	aggregate  domainagg.RecipeAggregate
	recipeRepo repos.RecipeRepo
	favorites  *repos.FavoriteRepo
	cart       *repos.CartRepo
	subs       *repos.SubscriptionRepo
	events     RecipeEvents
	fanOut     int
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	aggregate domainagg.RecipeAggregate,
	recipeRepo repos.RecipeRepo,
	favorites *repos.FavoriteRepo,
	cart *repos.CartRepo,
	subs *repos.SubscriptionRepo,
	events RecipeEvents,
	parallelism int,
) RecipeService {
	if events == nil {
		events = noopRecipeEvents{}
	}
	return &recipeService{
		db:         db,
		log:        log.With("service", "RecipeService"),
		aggregate:  aggregate,
		recipeRepo: recipeRepo,
		favorites:  favorites,
		cart:       cart,
		subs:       subs,
		events:     events,
		fanOut:     parallelism,
	}
}

func (s *recipeService) Create(ctx context.Context, in domainagg.CreateRecipeInput) (*RecipeView, error) {
	actor := ActorFromContext(ctx)
	created, err := s.aggregate.Create(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	s.events.RecipePublished(ctx, created.AuthorID, newRecipeShort(created))
	views, err := s.decorate(dbctx.Context{Ctx: ctx}, actor.UserID, []*types.Recipe{created})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "Recipe.Create", err)
	}
	return &views[0], nil
}

func (s *recipeService) Update(ctx context.Context, id uuid.UUID, in domainagg.UpdateRecipeInput) (*RecipeView, error) {
	actor := ActorFromContext(ctx)
	updated, err := s.aggregate.Update(ctx, actor, id, in)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(dbctx.Context{Ctx: ctx}, actor.UserID, []*types.Recipe{updated})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "Recipe.Update", err)
	}
	return &views[0], nil
}

func (s *recipeService) Delete(ctx context.Context, id uuid.UUID) error {
	actor := ActorFromContext(ctx)
	current, err := s.recipeRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return domainagg.Wrap(domainagg.CodeInternal, "Recipe.Delete", err)
	}
	if err := s.aggregate.Delete(ctx, actor, id); err != nil {
		return err
	}
	if current != nil {
		s.events.RecipeDeleted(ctx, current.AuthorID, id)
	}
	return nil
}

func (s *recipeService) Get(ctx context.Context, id uuid.UUID) (*RecipeView, error) {
	const op = "Recipe.Get"
	dbc := dbctx.Context{Ctx: ctx}
	r, err := s.recipeRepo.GetDetailed(dbc, id)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if r == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "recipe not found", nil)
	}
	views, err := s.decorate(dbc, ActorFromContext(ctx).UserID, []*types.Recipe{r})
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &views[0], nil
}

func (s *recipeService) Short(ctx context.Context, id uuid.UUID) (*RecipeShort, error) {
	r, err := s.recipeRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "Recipe.Short", err)
	}
	if r == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "Recipe.Short", "recipe not found", nil)
	}
	short := newRecipeShort(r)
	return &short, nil
}

// List applies the is_favorited/is_in_shopping_cart filters against the
// caller; an anonymous caller asking for either gets an empty page.
func (s *recipeService) List(ctx context.Context, q RecipeQuery) (*Page[RecipeView], error) {
	const op = "Recipe.List"
	viewer := ActorFromContext(ctx).UserID
	if (q.IsFavorited || q.IsInShoppingCart) && viewer == uuid.Nil {
		return &Page[RecipeView]{Results: []RecipeView{}}, nil
	}
	f := repos.RecipeListFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.IsFavorited {
		f.FavoritedBy = viewer
	}
	if q.IsInShoppingCart {
		f.InCartOf = viewer
	}

	var (
		total int64
		rows  []*types.Recipe
	)
	g, gctx := newGroup(ctx, s.fanOut)
	g.Go(func() error {
		n, err := s.recipeRepo.Count(dbctx.Context{Ctx: gctx}, f)
		total = n
		return err
	})
	g.Go(func() error {
		list, err := s.recipeRepo.List(dbctx.Context{Ctx: gctx}, f)
		rows = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	views, err := s.decorate(dbctx.Context{Ctx: ctx}, viewer, rows)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	return &Page[RecipeView]{Count: total, Results: views}, nil
}

// decorate resolves the viewer-relative flags with one query per flag.
func (s *recipeService) decorate(dbc dbctx.Context, viewer uuid.UUID, rows []*types.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uuid.UUID, 0, len(rows))
	authorIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}
	favorited, err := s.favorites.ContainsAny(dbc, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.ContainsAny(dbc, viewer, recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := s.subs.ContainsAny(dbc, viewer, authorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]RecipeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newRecipeView(r, following[r.AuthorID], favorited[r.ID], inCart[r.ID]))
	}
	return out, nil
}
