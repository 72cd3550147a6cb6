package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/authz"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/pkg/metrics"
)

const resourceAppointment = "appointment"

// AppointmentService implements booking and the vet-driven status machine.
type AppointmentService struct {
	repo  ports.AppointmentRepository
	users ports.UserRepository
	guard guard
	log   zerolog.Logger
}

// NewAppointmentService builds an AppointmentService. users resolves the vet
// named in a booking.
func NewAppointmentService(repo ports.AppointmentRepository, users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, users: users, guard: newGuard(audit, log), log: log}
}

// List returns the vet's or the customer's own appointments. Other roles have
// no appointment view.
func (s *AppointmentService) List(ctx context.Context, caller domain.IdentityClaim) ([]*domain.Appointment, error) {
	gate := authz.Roles(domain.RoleVet, domain.RoleCustomer).WithMessage("unauthorized")
	if err := s.guard.authorize(caller, resourceAppointment, "list", "", gate); err != nil {
		return nil, err
	}

	if caller.Role == domain.RoleVet {
		return s.repo.ListByVet(ctx, caller.ID)
	}
	return s.repo.ListByCustomer(ctx, caller.ID)
}

// Get returns a single appointment to one of its two participants.
func (s *AppointmentService) Get(ctx context.Context, caller domain.IdentityClaim, id string) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	participant := authz.AnyOf(authz.Owner(a.UserID), authz.Owner(a.VetID)).WithMessage("unauthorized")
	if err := s.guard.authorize(caller, resourceAppointment, "read", id, participant); err != nil {
		return nil, err
	}
	return a, nil
}

// Book creates a pending appointment between the calling customer and a vet.
func (s *AppointmentService) Book(ctx context.Context, caller domain.IdentityClaim, in ports.BookAppointmentInput) (*domain.Appointment, error) {
	if err := s.guard.authorize(caller, resourceAppointment, "create", "", authz.Roles(domain.RoleCustomer)); err != nil {
		return nil, err
	}

	if in.VetID == "" || in.Date.IsZero() {
		return nil, domain.Errorf(domain.ErrValidation, "vet_id and date are required")
	}

	vet, err := s.users.FindByID(ctx, in.VetID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if vet == nil || vet.Role != domain.RoleVet {
		return nil, domain.Errorf(domain.ErrValidation, "invalid vet")
	}

	now := time.Now().UTC()
	a := &domain.Appointment{
		UserID:    caller.ID,
		VetID:     vet.ID,
		Status:    domain.AppointmentPending,
		Date:      in.Date.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	metrics.AppointmentStatusChangesTotal.WithLabelValues(string(a.Status)).Inc()
	s.log.Info().Str("appointment_id", a.ID).Str("user_id", a.UserID).Str("vet_id", a.VetID).Msg("appointment booked")
	return a, nil
}

// UpdateStatus lets the assigned vet set any of the four statuses. The booking
// customer is told explicitly that cancelling is their only option.
func (s *AppointmentService) UpdateStatus(ctx context.Context, caller domain.IdentityClaim, id string, in ports.UpdateStatusInput) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var policy authz.Policy = authz.AnyOf(
		authz.AllOf(authz.Roles(domain.RoleVet), authz.Owner(a.VetID)),
	).WithMessage("unauthorized")
	if caller.Role == domain.RoleCustomer && caller.ID == a.UserID {
		// The booking customer gets a specific answer; an empty role set always denies.
		policy = authz.Roles().WithMessage("customers can only cancel appointments")
	}
	if err := s.guard.authorize(caller, resourceAppointment, "update", id, policy); err != nil {
		return nil, err
	}

	if in.Err != nil {
		return nil, in.Err
	}
	next := domain.AppointmentStatus(in.Status)
	if !next.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "invalid status")
	}

	a.Status = next
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	metrics.AppointmentStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().Str("appointment_id", id).Str("status", in.Status).Str("vet_id", caller.ID).Msg("appointment status updated")
	return a, nil
}

// Cancel moves the appointment to the cancelled status. Either the booking
// customer or the assigned vet may cancel; cancelling twice is a no-op.
func (s *AppointmentService) Cancel(ctx context.Context, caller domain.IdentityClaim, id string) (*domain.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	participant := authz.AnyOf(
		authz.AllOf(authz.Roles(domain.RoleCustomer), authz.Owner(a.UserID)),
		authz.AllOf(authz.Roles(domain.RoleVet), authz.Owner(a.VetID)),
	).WithMessage("unauthorized")
	if err := s.guard.authorize(caller, resourceAppointment, "delete", id, participant); err != nil {
		return nil, err
	}

	if a.Status == domain.AppointmentCancelled {
		return a, nil
	}

	a.Status = domain.AppointmentCancelled
	a.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	metrics.AppointmentStatusChangesTotal.WithLabelValues(string(a.Status)).Inc()
	s.log.Info().Str("appointment_id", id).Str("actor_id", caller.ID).Msg("appointment cancelled")
	return a, nil
}
