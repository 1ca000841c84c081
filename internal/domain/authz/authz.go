// Package authz holds the single capability check used by every write path.
package authz

import (
	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
)

type Action string

const (
	ActionRead    Action = "read"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionFollow  Action = "follow"
	ActionCollect Action = "collect"
)

type ResourceKind string

const (
	ResourceRecipe       ResourceKind = "recipe"
	ResourceUser         ResourceKind = "user"
	ResourceFavorites    ResourceKind = "favorites"
	ResourceCart         ResourceKind = "cart"
	ResourceSubscription ResourceKind = "subscription"
)

// Actor is the caller identity as seen by the core.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

func Anonymous() Actor { return Actor{Role: user.RoleUser} }

func (a Actor) Authenticated() bool { return a.UserID != uuid.Nil }

// Resource identifies what is acted upon. OwnerID is uuid.Nil for
// collections and for resources that do not exist yet.
type Resource struct {
	Kind    ResourceKind
	OwnerID uuid.UUID
}

type Reason string

const (
	ReasonAllowed         Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonNotOwner        Reason = "not_owner"
	ReasonUnknownAction   Reason = "unknown_action"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Authorize decides whether actor may perform action on res.
func Authorize(actor Actor, res Resource, action Action) Decision {
	if action == ActionRead {
		return allow()
	}
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}
	switch action {
	case ActionCreate, ActionFollow, ActionCollect:
		return allow()
	case ActionUpdate, ActionDelete:
		if res.OwnerID == actor.UserID || actor.Role.Elevated() {
			return allow()
		}
		return deny(ReasonNotOwner)
	}
	return deny(ReasonUnknownAction)
}
