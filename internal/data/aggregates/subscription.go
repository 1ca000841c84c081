package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/data/repos"
	types "github.com/AntonEmtsov/foodgram-project-react/internal/domain"
	domainagg "github.com/AntonEmtsov/foodgram-project-react/internal/domain/aggregates"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/dbctx"
)

type SubscriptionDeps struct {
	Base          BaseDeps
	Users         repos.UserRepo
	Subscriptions *repos.SubscriptionRepo
}

type subscriptionGraph struct {
	users repos.UserRepo
	set   *MembershipSet[types.Subscription, *types.Subscription]
}

var _ domainagg.SubscriptionGraph = (*subscriptionGraph)(nil)

func NewSubscriptionGraph(deps SubscriptionDeps) domainagg.SubscriptionGraph {
	return &subscriptionGraph{
		users: deps.Users,
		set:   NewMembershipSet(deps.Base, deps.Subscriptions, "Subscription"),
	}
}

func (g *subscriptionGraph) Contract() domainagg.Contract { return domainagg.SubscriptionGraphContract }

func (g *subscriptionGraph) Follow(ctx context.Context, actor authz.Actor, authorID uuid.UUID) error {
	const op = "Subscription.Follow"
	if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceSubscription, OwnerID: actor.UserID}, authz.ActionFollow)); err != nil {
		return err
	}
	if authorID == actor.UserID {
		return MapError(op, FieldError("author", "cannot follow self"))
	}
	return executeWrite(ctx, g.set.base, op, func(dbc dbctx.Context) error {
		if err := g.requireAuthor(dbc, authorID); err != nil {
			return err
		}
		return g.set.add(dbc, actor.UserID, authorID)
	})
}

func (g *subscriptionGraph) Unfollow(ctx context.Context, actor authz.Actor, authorID uuid.UUID) error {
	const op = "Subscription.Unfollow"
	if err := denied(op, authz.Authorize(actor, authz.Resource{Kind: authz.ResourceSubscription, OwnerID: actor.UserID}, authz.ActionFollow)); err != nil {
		return err
	}
	return executeWrite(ctx, g.set.base, op, func(dbc dbctx.Context) error {
		if err := g.requireAuthor(dbc, authorID); err != nil {
			return err
		}
		return g.set.remove(dbc, actor.UserID, authorID)
	})
}

func (g *subscriptionGraph) requireAuthor(dbc dbctx.Context, authorID uuid.UUID) error {
	u, err := g.users.GetByID(dbc, authorID)
	if err != nil {
		return err
	}
	if u == nil {
		return NotFoundError("user not found")
	}
	return nil
}
