package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
)

var MembershipSetContract = Contract{
	Name:             "Recipe.MembershipSet",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "At-most-once (owner, member) pairs backed by a unique index.",
}

// MembershipSet is a per-owner set of members (favorites, cart, follows).
//
// Add fails with CodeConflict when the pair exists; Remove fails with
// CodeNotFound when it does not.
type MembershipSet interface {
	Aggregate

	Add(ctx context.Context, owner, member uuid.UUID) error
	Remove(ctx context.Context, owner, member uuid.UUID) error
	Contains(ctx context.Context, owner, member uuid.UUID) (bool, error)
}

// RecipeCollection is a MembershipSet of recipes owned by the acting user.
type RecipeCollection interface {
	Aggregate

	Add(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error
	Remove(ctx context.Context, actor authz.Actor, recipeID uuid.UUID) error
}

var SubscriptionGraphContract = Contract{
	Name:             "User.SubscriptionGraph",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Directed follower->author edges; no self edges, no duplicates.",
}

// SubscriptionGraph owns follow edges.
//
// Follow fails with CodeValidation for self-follow, CodeConflict for an
// existing edge and CodeNotFound for an unknown target.
type SubscriptionGraph interface {
	Aggregate

	Follow(ctx context.Context, actor authz.Actor, authorID uuid.UUID) error
	Unfollow(ctx context.Context, actor authz.Actor, authorID uuid.UUID) error
}
