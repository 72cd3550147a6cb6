package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/api/middleware"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// ctxClaims extracts the claim injected by the Auth middleware. Its absence
// means the route was mounted without Auth and is reported as 401.
func ctxClaims(c echo.Context) (domain.IdentityClaim, error) {
	claim, ok := middleware.Claims(c)
	if !ok {
		return domain.IdentityClaim{}, domain.Errorf(domain.ErrUnauthenticated, "missing authentication claims")
	}
	return claim, nil
}
