package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/authz"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

const resourceUser = "user"

// UserService implements admin user management.
//
// Deletion uses a restrict policy: a user who still owns listings or takes
// part in appointments cannot be deleted. A deleted user's id goes on the
// revocation list for revokeTTL so tokens issued before the deletion stop
// working immediately.
type UserService struct {
	users        ports.UserRepository
	products     ports.ProductRepository
	pets         ports.PetRepository
	appointments ports.AppointmentRepository
	revocations  ports.RevocationStore
	revokeTTL    time.Duration
	guard        guard
	log          zerolog.Logger
}

// UserServiceDeps groups the collaborators of UserService.
type UserServiceDeps struct {
	Users        ports.UserRepository
	Products     ports.ProductRepository
	Pets         ports.PetRepository
	Appointments ports.AppointmentRepository
	Revocations  ports.RevocationStore
	Audit        ports.AuditSink
	// RevokeTTL should be at least the access token TTL.
	RevokeTTL time.Duration
}

// NewUserService builds a UserService from its repositories.
func NewUserService(deps UserServiceDeps, log zerolog.Logger) *UserService {
	return &UserService{
		users:        deps.Users,
		products:     deps.Products,
		pets:         deps.Pets,
		appointments: deps.Appointments,
		revocations:  deps.Revocations,
		revokeTTL:    deps.RevokeTTL,
		guard:        newGuard(deps.Audit, log),
		log:          log,
	}
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, caller domain.IdentityClaim) ([]*domain.User, error) {
	if err := s.guard.authorize(caller, resourceUser, "list", "", authz.Roles(domain.RoleAdmin)); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Delete removes an account that owns nothing and takes part in no
// appointment, then revokes its outstanding tokens. Admin only.
func (s *UserService) Delete(ctx context.Context, caller domain.IdentityClaim, id string) error {
	if err := s.guard.authorize(caller, resourceUser, "delete", id, authz.Roles(domain.RoleAdmin)); err != nil {
		return err
	}
	if id == caller.ID {
		return domain.Errorf(domain.ErrValidation, "admins cannot delete their own account")
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.ensureNoDependents(ctx, id); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if s.revocations != nil {
		if err := s.revocations.Revoke(ctx, id, s.revokeTTL); err != nil {
			// The account is gone; its tokens still expire within the TTL.
			s.log.Error().Err(err).Str("user_id", id).Msg("failed to revoke tokens of deleted user")
		}
	}

	s.log.Info().Str("user_id", id).Str("actor_id", caller.ID).Msg("user deleted")
	return nil
}

func (s *UserService) ensureNoDependents(ctx context.Context, id string) error {
	products, err := s.products.CountBySeller(ctx, id)
	if err != nil {
		return err
	}
	pets, err := s.pets.CountBySeller(ctx, id)
	if err != nil {
		return err
	}
	appointments, err := s.appointments.CountByParticipant(ctx, id)
	if err != nil {
		return err
	}

	if products+pets+appointments > 0 {
		return domain.Errorf(domain.ErrUserHasDependents,
			"user still has %d product(s), %d pet(s) and %d appointment(s)", products, pets, appointments)
	}
	return nil
}
