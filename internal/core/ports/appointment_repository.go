package ports

import (
	"context"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// AppointmentRepository persists appointments. Update is version-checked
// like ProductRepository.Update.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByCustomer(ctx context.Context, userID string) ([]*domain.Appointment, error)
	ListByVet(ctx context.Context, vetID string) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) error
	// CountByParticipant counts appointments where the user is either the
	// customer or the vet.
	CountByParticipant(ctx context.Context, userID string) (int64, error)
}
