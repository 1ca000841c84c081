package services

import (
	"context"

	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/authz"
	"github.com/AntonEmtsov/foodgram-project-react/internal/domain/user"
	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/ctxutil"
)

// ActorFromContext turns the request data set by the auth middleware into
// an authz actor. Anonymous when no token was presented.
func ActorFromContext(ctx context.Context) authz.Actor {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return authz.Anonymous()
	}
	return authz.Actor{UserID: rd.UserID, Role: user.ParseRole(rd.Role)}
}
