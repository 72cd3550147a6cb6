package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/pkg/metrics"
)

// ClaimsKey is the echo context key holding the caller's domain.IdentityClaim.
const ClaimsKey = "claims"

// TokenVerifier turns a raw bearer token into an identity claim.
type TokenVerifier interface {
	Verify(raw string) (domain.IdentityClaim, error)
}

// Auth validates the bearer token and injects the claim into context.
//
// When revocations is non-nil, tokens of revoked users are refused. A failing
// revocation lookup is logged and the request continues: the token has
// already been verified and its TTL bounds the exposure.
func Auth(verifier TokenVerifier, revocations ports.RevocationStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return reject("missing_header", "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return reject("malformed_header", "invalid authorization header")
			}

			claim, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			if revocations != nil && isRevoked(c.Request().Context(), revocations, claim.ID, log) {
				return reject("revoked", "token has been revoked")
			}

			c.Set(ClaimsKey, claim)
			return next(c)
		}
	}
}

func isRevoked(ctx context.Context, revocations ports.RevocationStore, userID string, log zerolog.Logger) bool {
	revoked, err := revocations.IsRevoked(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("revocation check failed, allowing request")
		return false
	}
	return revoked
}

func reject(reason, msg string) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	return domain.Errorf(domain.ErrUnauthenticated, "%s", msg)
}

// Claims returns the claim injected by Auth.
func Claims(c echo.Context) (domain.IdentityClaim, bool) {
	claim, ok := c.Get(ClaimsKey).(domain.IdentityClaim)
	return claim, ok && claim.ID != ""
}
