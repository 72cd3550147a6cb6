package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

func newRBACContext(claim *domain.IdentityClaim) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if claim != nil {
		c.Set(ClaimsKey, *claim)
	}
	return c
}

func TestRBAC_Allows(t *testing.T) {
	c := newRBACContext(&domain.IdentityClaim{ID: "u1", Role: domain.RoleAdmin})

	called := false
	handler := RBAC(domain.RoleAdmin, domain.RoleVet)(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c := newRBACContext(&domain.IdentityClaim{ID: "u1", Role: domain.RoleCustomer})

	handler := RBAC(domain.RoleAdmin, domain.RoleVet)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err.Error() != "only admins or vets can access this" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRBAC_WithoutClaims(t *testing.T) {
	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(newRBACContext(nil)); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireRole_MatchesSingleRoleRBAC(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleSeller, domain.RoleVet, domain.RoleAdmin} {
		claim := &domain.IdentityClaim{ID: "u1", Role: role}
		next := func(c echo.Context) error { return nil }

		single := RequireRole(domain.RoleSeller)(next)(newRBACContext(claim))
		multi := RBAC(domain.RoleSeller)(next)(newRBACContext(claim))

		if (single == nil) != (multi == nil) {
			t.Fatalf("role %s: RequireRole=%v RBAC=%v", role, single, multi)
		}
		if single != nil && single.Error() != multi.Error() {
			t.Fatalf("role %s: messages differ: %q vs %q", role, single, multi)
		}
	}
}
