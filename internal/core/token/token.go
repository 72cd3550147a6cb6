// Package token mints and verifies the signed access tokens that carry an
// identity claim.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

const defaultTTL = time.Hour

// Claims is the JWT payload: the identity claim plus the registered fields.
type Claims struct {
	UserID string      `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer. A non-positive ttl falls back to one hour.
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens, and therefore the upper bound on how
// stale a claim can be.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue mints a token for a user whose credentials have already been checked.
func (i *Issuer) Issue(user *domain.User) (string, time.Time, error) {
	if user == nil || user.ID == "" {
		return "", time.Time{}, errors.New("token: user without id")
	}
	if !user.Role.Valid() {
		return "", time.Time{}, errors.New("token: user has unknown role " + string(user.Role))
	}

	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm, expiry and claim shape. Any failure
// matches domain.ErrUnauthenticated.
func (i *Issuer) Verify(raw string) (domain.IdentityClaim, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.IdentityClaim{}, domain.Errorf(domain.ErrUnauthenticated, "token has expired")
		}
		return domain.IdentityClaim{}, domain.Errorf(domain.ErrUnauthenticated, "invalid token")
	}

	if claims.UserID == "" || claims.UserID != claims.Subject || !claims.Role.Valid() {
		return domain.IdentityClaim{}, domain.Errorf(domain.ErrUnauthenticated, "invalid token claims")
	}

	return domain.IdentityClaim{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
