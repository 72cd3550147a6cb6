package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/infrastructure/db/memory"
)

func errorsIs(err, target error) bool { return errors.Is(err, target) }

// recordingSink captures audit events synchronously.
type recordingSink struct {
	events []domain.AuditEvent
}

func (s *recordingSink) Record(e domain.AuditEvent) { s.events = append(s.events, e) }

type fixture struct {
	store        *memory.Store
	audit        *recordingSink
	products     *ProductService
	pets         *PetService
	appointments *AppointmentService
	users        *UserService
}

func newFixture() *fixture {
	store := memory.New()
	audit := &recordingSink{}
	log := zerolog.Nop()
	return &fixture{
		store:        store,
		audit:        audit,
		products:     NewProductService(store.Products(), audit, log),
		pets:         NewPetService(store.Pets(), audit, log),
		appointments: NewAppointmentService(store.Appointments(), store.Users(), audit, log),
		users: NewUserService(UserServiceDeps{
			Users:        store.Users(),
			Products:     store.Products(),
			Pets:         store.Pets(),
			Appointments: store.Appointments(),
			Revocations:  store.Revocations(),
			Audit:        audit,
			RevokeTTL:    time.Hour,
		}, log),
	}
}

// user inserts a user directly and returns its claim.
func (f *fixture) user(t *testing.T, name string, role domain.Role) domain.IdentityClaim {
	t.Helper()
	u, err := f.store.Users().Create(context.Background(), &domain.User{
		Username: name,
		Email:    name + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return domain.ClaimFor(u)
}
