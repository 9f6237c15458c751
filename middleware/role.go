package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Dosada05/intramural-stats/models"
)

// RoleHeader carries the caller's role. There is no login; the header
// only routes a caller to the operations of its role.
const RoleHeader = "X-User-Role"

// RequireRole admits callers whose role header is role or admin.
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(RoleHeader))
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "missing "+RoleHeader+" header")
				return
			}

			userRole := models.UserRole(strings.ToLower(raw))
			if !userRole.Valid() {
				writeError(w, http.StatusUnauthorized, "unknown role: "+raw)
				return
			}
			if userRole != role && userRole != models.RoleAdmin {
				writeError(w, http.StatusForbidden, "role "+string(userRole)+" cannot access this resource")
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserRole(r.Context(), userRole)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
