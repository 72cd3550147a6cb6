package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/core/token"
	"github.com/pawmarket/marketplace-api/internal/infrastructure/db/memory"
)

func newAuthSvc(store *memory.Store) *AuthService {
	return NewAuthService(store.Users(), token.NewIssuer("secret", "", time.Hour), bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthSvc(memory.New())

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pass123", Role: domain.RoleSeller})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleSeller {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_DefaultsToCustomer(t *testing.T) {
	svc := newAuthSvc(memory.New())

	user, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carl", Email: "carl@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Fatalf("expected customer, got %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(memory.New())
	ctx := context.Background()

	cases := map[string]ports.RegisterInput{
		"missing username": {Email: "a@example.com", Password: "pass123"},
		"missing email":    {Username: "a", Password: "pass123"},
		"missing password": {Username: "a", Email: "a@example.com"},
		"bad email":        {Username: "a", Email: "not-an-email", Password: "pass123"},
		"short password":   {Username: "a", Email: "a@example.com", Password: "123"},
		"unknown role":     {Username: "a", Email: "a@example.com", Password: "pass123", Role: "wizard"},
	}
	for name, in := range cases {
		if _, err := svc.Register(ctx, in); !errorsIs(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}

	_, err := svc.Register(ctx, ports.RegisterInput{Username: "root", Email: "root@example.com", Password: "pass123", Role: domain.RoleAdmin})
	if !errorsIs(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin self-registration, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "pass123"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, ports.RegisterInput{Username: "bobby", Email: "bob@example.com", Password: "pass123"})
	if !errorsIs(err, domain.ErrUserExists) || err.Error() != "user with this email already exists" {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	_, err = svc.Register(ctx, ports.RegisterInput{Username: "bob", Email: "bob2@example.com", Password: "pass123"})
	if !errorsIs(err, domain.ErrUserExists) || err.Error() != "username already taken" {
		t.Fatalf("expected duplicate username error, got %v", err)
	}

	if _, err := svc.Register(ctx, ports.RegisterInput{Username: "bob2", Email: "bob2@example.com", Password: "pass123"}); err != nil {
		t.Fatalf("distinct pair should succeed, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthSvc(memory.New())
	ctx := context.Background()

	registered, err := svc.Register(ctx, ports.RegisterInput{Username: "carol", Email: "carol@example.com", Password: "s3cret", Role: domain.RoleVet})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleVet) || claims["id"] != registered.ID || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc := newAuthSvc(memory.New())
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Username: "dave", Email: "dave@example.com", Password: "goodpass"})

	if _, err := svc.Login(ctx, "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(ctx, "", ""); !errorsIs(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	store := memory.New()
	svc := newAuthSvc(store)
	ctx := context.Background()

	admin, err := svc.EnsureAdmin(ctx, "root", "root@example.com", "rootpass")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}

	again, err := svc.EnsureAdmin(ctx, "root", "root@example.com", "rootpass")
	if err != nil || again.ID != admin.ID {
		t.Fatalf("EnsureAdmin should be idempotent: %v %+v", err, again)
	}

	_, _ = svc.Register(ctx, ports.RegisterInput{Username: "eve", Email: "eve@example.com", Password: "pass123"})
	if _, err := svc.EnsureAdmin(ctx, "eve", "eve@example.com", "pass123"); err == nil {
		t.Fatalf("expected error when the bootstrap email belongs to a customer")
	}
}
