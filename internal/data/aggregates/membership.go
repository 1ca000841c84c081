package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos/membership"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

// MembershipSet guards one membership table: at most one row per
// (owner, member) pair.
type MembershipSet[T any, P membership.RowPtr[T]] struct {
	base BaseDeps
	repo *membership.Repo[T, P]
	name string
}

var _ domainagg.MembershipSet = (*MembershipSet[types.Favorite, *types.Favorite])(nil)

func NewMembershipSet[T any, P membership.RowPtr[T]](base BaseDeps, repo *membership.Repo[T, P], name string) *MembershipSet[T, P] {
	return &MembershipSet[T, P]{base: base.withDefaults(), repo: repo, name: strings.TrimSpace(name)}
}

func (s *MembershipSet[T, P]) Contract() domainagg.Contract { return domainagg.MembershipSetContract }

func (s *MembershipSet[T, P]) Add(ctx context.Context, owner, member uuid.UUID) error {
	return executeWrite(ctx, s.base, s.name+".Add", func(dbc dbctx.Context) error {
		return s.add(dbc, owner, member)
	})
}

func (s *MembershipSet[T, P]) Remove(ctx context.Context, owner, member uuid.UUID) error {
	return executeWrite(ctx, s.base, s.name+".Remove", func(dbc dbctx.Context) error {
		return s.remove(dbc, owner, member)
	})
}

func (s *MembershipSet[T, P]) Contains(ctx context.Context, owner, member uuid.UUID) (bool, error) {
	ok, err := s.repo.Exists(dbctx.Context{Ctx: ctx}, owner, member)
	if err != nil {
		return false, MapError(s.name+".Contains", err)
	}
	return ok, nil
}

func (s *MembershipSet[T, P]) add(dbc dbctx.Context, owner, member uuid.UUID) error {
	exists, err := s.repo.Exists(dbc, owner, member)
	if err != nil {
		return err
	}
	if exists {
		return ConflictError("already exists")
	}
	if _, err := s.repo.Create(dbc, owner, member); err != nil {
		// concurrent add won the race
		if IsUniqueViolation(err) {
			return ConflictError("already exists")
		}
		return err
	}
	return nil
}

func (s *MembershipSet[T, P]) remove(dbc dbctx.Context, owner, member uuid.UUID) error {
	n, err := s.repo.Delete(dbc, owner, member)
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundError("not present")
	}
	return nil
}

// RecipeCollectionDeps wires a per-user recipe set (favorites or cart).
type RecipeCollectionDeps[T any, P membership.RowPtr[T]] struct {
	Base    BaseDeps
	Recipes repos.RecipeRepo
	Repo    *membership.Repo[T, P]
	Kind    authz.ResourceKind
	Name    string
}

type recipeCollection[T any, P membership.RowPtr[T]] struct {
	set     *MembershipSet[T, P]
	recipes repos.RecipeRepo
	kind    authz.ResourceKind
}

func NewRecipeCollection[T any, P membership.RowPtr[T]](deps RecipeCollectionDeps[T, P]) domainagg.RecipeCollection {
	return &recipeCollection[T, P]{
		set:     NewMembershipSet(deps.Base, deps.Repo, deps.Name),
		recipes: deps.Recipes,
		kind:    deps.Kind,
	}
}

func (c *recipeCollection[T, P]) Contract() domainagg.Contract { return domainagg.MembershipSetContract }

func (c *recipeCollection[T, P]) Add(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error {
	op := c.set.name + ".Add"
	if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: c.kind, OwnerID: actor.UserID}, authz.ActionCollect)); err != nil {
		return err
	}
	return executeWrite(ctx, c.set.base, op, func(dbc dbctx.Context) error {
		ok, err := c.recipes.Exists(dbc, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError("recipe not found")
		}
		return c.set.add(dbc, actor.UserID, recipeID)
	})
}

func (c *recipeCollection[T, P]) Remove(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error {
	op := c.set.name + ".Remove"
	if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: c.kind, OwnerID: actor.UserID}, authz.ActionCollect)); err != nil {
		return err
	}
	return executeWrite(ctx, c.set.base, op, func(dbc dbctx.Context) error {
		ok, err := c.recipes.Exists(dbc, recipeID)
		if err != nil {
			return err
		}
		if !ok {
			return NotFoundError("recipe not found")
		}
		return c.set.remove(dbc, actor.UserID, recipeID)
	})
}
