package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/pkg/metrics"
)

const minPasswordLength = 6

// TokenIssuer mints an access token for a verified user.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// AuthService implements registration and login.
type AuthService struct {
	users      ports.UserRepository
	issuer     TokenIssuer
	bcryptCost int
	validate   *validator.Validate
	log        zerolog.Logger
}

// NewAuthService builds an AuthService. A bcryptCost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewAuthService(users ports.UserRepository, issuer TokenIssuer, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		log:        log,
	}
}

// Register creates a customer, seller or vet account. Admin accounts cannot be
// self-registered; see EnsureAdmin.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Errorf(domain.ErrValidation, "username, email and password are required")
	}
	if s.validate.Var(in.Email, "email") != nil {
		return nil, domain.Errorf(domain.ErrValidation, "invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.Errorf(domain.ErrValidation, "password must be at least %d characters", minPasswordLength)
	}

	if in.Role == "" {
		in.Role = domain.RoleCustomer
	}
	if !in.Role.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "role must be one of: customer, seller, vet")
	}
	if in.Role == domain.RoleAdmin {
		return nil, domain.Errorf(domain.ErrForbidden, "admin accounts cannot be self-registered")
	}

	return s.create(ctx, in)
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// email already exists. An existing non-admin user with that email is an error.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("bootstrap admin: %s is registered as %s", email, existing.Role)
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}

	return s.create(ctx, ports.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.ensureUnique(ctx, in.Email, in.Username); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(created.Role)).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// ensureUnique gives a field-specific message for the common case. The store's
// unique indexes still catch the race between this check and the insert.
func (s *AuthService) ensureUnique(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.Errorf(domain.ErrUserExists, "user with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return domain.Errorf(domain.ErrUserExists, "username already taken")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Errorf(domain.ErrValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.issuer.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}
