package casbinAuthorization

import (
	"net/http"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"
)

const unauthenticatedRole = "Unauthenticated"

// CasbinMiddleware enforces the coarse role x path x method policy. It
// runs after the authentication middleware, so the role comes from the
// Principal already in the context; requests without one are matched as
// Unauthenticated.
func CasbinMiddleware(enforcer *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			role := unauthenticatedRole
			if principal, ok := authorization.PrincipalFromContext(req.Context()); ok {
				role = string(principal.Role)
			}

			allowed, err := enforcer.EnforceSafe(role, req.URL.Path, req.Method)
			if err != nil {
				logger.Errorf("enforce error: %v", err)
				http.Error(writer, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if !allowed {
				http.Error(writer, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(writer, req)
		})
	}
}
