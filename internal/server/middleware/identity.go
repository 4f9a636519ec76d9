package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/snapserve/snapserve/internal/domain"
	"github.com/snapserve/snapserve/internal/server/response"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int
	Role   domain.Role
}

// Resolver extracts the caller's identity from a request. Session
// establishment itself lives outside this service; the resolver trusts
// whatever the fronting auth layer attests.
type Resolver func(r *http.Request) (Identity, bool)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const identityKey contextKey = iota

// WithIdentity attaches an identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the caller identity, if one was resolved.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// HeaderResolver reads identity from the X-User-ID and X-User-Role headers
// set by the fronting session layer.
func HeaderResolver(r *http.Request) (Identity, bool) {
	userID, err := strconv.Atoi(r.Header.Get("X-User-ID"))
	if err != nil || userID <= 0 {
		return Identity{}, false
	}
	role := domain.Role(r.Header.Get("X-User-Role"))
	if !role.Valid() {
		return Identity{}, false
	}
	return Identity{UserID: userID, Role: role}, true
}

// ResolveIdentity attaches the resolved identity (when present) to the
// request context. Requests without identity pass through untouched; role
// enforcement happens per-route via RequireRole.
func ResolveIdentity(resolve Resolver, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := resolve(r); ok {
				r = r.WithContext(WithIdentity(r.Context(), id))
				logger.Debug().
					Int("user_id", id.UserID).
					Str("role", string(id.Role)).
					Str("path", r.URL.Path).
					Msg("Identity resolved")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole wraps a handler, rejecting callers whose role is not in the
// allowed set.
func RequireRole(next http.HandlerFunc, roles ...domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication required", "")
			return
		}
		for _, role := range roles {
			if id.Role == role {
				next(w, r)
				return
			}
		}
		response.Forbidden(w, "Insufficient role", "This action requires one of: "+rolesList(roles))
	}
}

func rolesList(roles []domain.Role) string {
	out := ""
	for i, role := range roles {
		if i > 0 {
			out += ", "
		}
		out += string(role)
	}
	return out
}
