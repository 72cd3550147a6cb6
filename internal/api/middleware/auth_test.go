package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/token"
	"github.com/pawmarket/marketplace-api/internal/infrastructure/db/memory"
)

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func issue(t *testing.T, iss *token.Issuer, id string, role domain.Role) string {
	t.Helper()
	signed, _, err := iss.Issue(&domain.User{ID: id, Email: id + "@example.com", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	iss := token.NewIssuer("secret", "", time.Hour)
	c, rec := newAuthContext("Bearer " + issue(t, iss, "u1", domain.RoleSeller))

	called := false
	handler := Auth(iss, nil, zerolog.Nop())(func(c echo.Context) error {
		called = true
		claim, ok := Claims(c)
		if !ok {
			t.Fatalf("claims not set")
		}
		if claim.ID != "u1" || claim.Role != domain.RoleSeller || claim.Email != "u1@example.com" {
			t.Fatalf("unexpected claim: %+v", claim)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	iss := token.NewIssuer("secret", "", time.Hour)
	other := token.NewIssuer("other-secret", "", time.Hour)

	cases := map[string]string{
		"missing header":   "",
		"wrong scheme":     "Token abc",
		"empty token":      "Bearer ",
		"garbage token":    "Bearer not-a-token",
		"wrong secret":     "Bearer " + issue(t, other, "u1", domain.RoleAdmin),
		"no scheme at all": issue(t, iss, "u1", domain.RoleAdmin),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newAuthContext(header)
			handler := Auth(iss, nil, zerolog.Nop())(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_RevokedUser(t *testing.T) {
	iss := token.NewIssuer("secret", "", time.Hour)
	store := memory.New()
	if err := store.Revocations().Revoke(context.Background(), "gone", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	c, _ := newAuthContext("Bearer " + issue(t, iss, "gone", domain.RoleCustomer))
	handler := Auth(iss, store.Revocations(), zerolog.Nop())(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if err.Error() != "token has been revoked" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAuthMiddleware_RevocationLookupFailureAllows(t *testing.T) {
	iss := token.NewIssuer("secret", "", time.Hour)
	c, rec := newAuthContext("Bearer " + issue(t, iss, "u1", domain.RoleCustomer))

	handler := Auth(iss, failingRevocations{}, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
