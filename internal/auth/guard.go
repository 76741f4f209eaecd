package auth

import (
	"log/slog"
	"net/http"

	"github.com/abhay-gupta-199/kmrl-backend/internal/transport"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
)

// RoleGuard provides role-gated route wrappers. Services re-check authority
// themselves; the guard just fails fast at the edge.
type RoleGuard struct {
	*transport.BaseHandler
}

func NewRoleGuard(logger *slog.Logger) *RoleGuard {
	return &RoleGuard{BaseHandler: transport.NewBaseHandler(logger)}
}

// RequireApprover admits only DepartmentHead and Dean.
func (g *RoleGuard) RequireApprover() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.FromContext(r.Context())
			if !ok {
				g.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !u.Role.CanApprove() {
				g.Logger.Warn("access denied: approval authority required",
					"user_id", u.ID,
					"role", u.Role)
				g.WriteError(w, http.StatusForbidden, "only DepartmentHead or Dean can approve documents")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin admits only SuperAdmin.
func (g *RoleGuard) RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := user.FromContext(r.Context())
			if !ok {
				g.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !u.Role.IsSuperAdmin() {
				g.Logger.Warn("access denied: SuperAdmin required",
					"user_id", u.ID,
					"role", u.Role)
				g.WriteError(w, http.StatusForbidden, "only SuperAdmin can perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
