package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/authz"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth; a request
// without a claim is treated as unauthenticated.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claim, ok := Claims(c)
			if !ok {
				return domain.Errorf(domain.ErrUnauthenticated, "missing authentication claims")
			}
			if err := authz.RequireRoles(claim, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireRole is the single-role form of RBAC.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return RBAC(role)
}
