package middleware

import (
	"net/http"

	"sitecms/internal/models"
	"sitecms/internal/reqctx"
	"sitecms/internal/utils/helpers"
)

// OnlyRole ставится после JWTAuth. Администратор проходит любые проверки ролей.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return AnyRole(role)
}

func AnyRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(allowedRoles)+1)
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	roleSet[models.RoleAdmin] = struct{}{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := reqctx.GetRole(r.Context())
			if !ok {
				helpers.Error(w, http.StatusForbidden, "Не удалось определить роль")
				return
			}
			if _, found := roleSet[userRole]; !found {
				helpers.Error(w, http.StatusForbidden, "Доступ запрещён")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
