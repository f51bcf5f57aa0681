package middleware

import (
	"context"
	"net/http"
	"strconv"

	"reservas/pkg/model"
)

const (
	// Identity is resolved upstream (gateway); the engine trusts these headers.
	HeaderUserID       = "X-User-ID"
	HeaderUserPriority = "X-User-Priority"
)

const ActorKey contextKey = "actor"

// Identity extracts the acting principal from the request headers and stores
// it on the context. Requests without a user id still pass through; guarded
// operations reject them further down.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := model.Actor{
				UserID: r.Header.Get(HeaderUserID),
			}
			if p, err := strconv.Atoi(r.Header.Get(HeaderUserPriority)); err == nil {
				actor.Priority = p
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the actor stored by Identity, zero-valued when the
// middleware did not run.
func ActorFromContext(ctx context.Context) model.Actor {
	if actor, ok := ctx.Value(ActorKey).(model.Actor); ok {
		return actor
	}
	return model.Actor{}
}
