package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/resource-management/internal"
	"github.com/frahmantamala/resource-management/internal/transport"
)

// RequireRole rejects callers that hold none of roles. It expects the auth
// middleware to have placed the user on the request context.
func RequireRole(lg *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				base.HandleServiceError(w, internal.NewUnauthorizedError("authentication required", internal.ErrCodeUnauthorizedAccess))
				return
			}

			for _, role := range roles {
				if user.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			base.Logger.Warn("access denied: required role missing",
				"user_id", user.ID,
				"required_roles", roles,
				"user_roles", user.Roles)
			base.HandleServiceError(w, internal.ErrRoleRequired)
		})
	}
}
