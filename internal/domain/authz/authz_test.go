package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
)

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	recipe := Resource{Kind: ResourceRecipe, OwnerID: owner}

	cases := []struct {
		name   string
		actor  Actor
		action Action
		want   Decision
	}{
		{"anonymous read", Anonymous(), ActionRead, Decision{Allowed: true}},
		{"anonymous create", Anonymous(), ActionCreate, Decision{Reason: ReasonUnauthenticated}},
		{"anonymous follow", Anonymous(), ActionFollow, Decision{Reason: ReasonUnauthenticated}},
		{"owner update", Actor{UserID: owner, Role: user.RoleUser}, ActionUpdate, Decision{Allowed: true}},
		{"stranger update", Actor{UserID: other, Role: user.RoleUser}, ActionUpdate, Decision{Reason: ReasonNotOwner}},
		{"stranger delete", Actor{UserID: other, Role: user.RoleUser}, ActionDelete, Decision{Reason: ReasonNotOwner}},
		{"moderator update", Actor{UserID: other, Role: user.RoleModerator}, ActionUpdate, Decision{Allowed: true}},
		{"admin delete", Actor{UserID: other, Role: user.RoleAdmin}, ActionDelete, Decision{Allowed: true}},
		{"user collect", Actor{UserID: other}, ActionCollect, Decision{Allowed: true}},
		{"unknown action", Actor{UserID: other}, Action("publish"), Decision{Reason: ReasonUnknownAction}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.actor, recipe, tc.action); got != tc.want {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}
