package ports

import (
	"context"
	"time"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// RegisterInput carries a registration request. An empty Role means customer.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService registers users and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// CreateProductInput holds the fields of a new product. The owner always
// comes from the caller's claim.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
}

// ProductService is the product use-case boundary.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, caller domain.IdentityClaim, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, caller domain.IdentityClaim, id string) error
}

// CreatePetInput holds the fields of a new pet listing.
type CreatePetInput struct {
	Name    string
	Species string
	Breed   string
	Age     int
	Price   float64
}

// PetService is the pet use-case boundary.
type PetService interface {
	List(ctx context.Context) ([]*domain.Pet, error)
	Get(ctx context.Context, id string) (*domain.Pet, error)
	Create(ctx context.Context, caller domain.IdentityClaim, in CreatePetInput) (*domain.Pet, error)
	Update(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.PetPatch) (*domain.Pet, error)
	Delete(ctx context.Context, caller domain.IdentityClaim, id string) error
}

// BookAppointmentInput holds a booking request.
type BookAppointmentInput struct {
	VetID string
	Date  time.Time
}

// UpdateStatusInput holds a status change. Err carries a body decoding
// failure, reported only once the caller is authorized for the change.
type UpdateStatusInput struct {
	Status string
	Err    error
}

// AppointmentService is the appointment use-case boundary.
type AppointmentService interface {
	List(ctx context.Context, caller domain.IdentityClaim) ([]*domain.Appointment, error)
	Get(ctx context.Context, caller domain.IdentityClaim, id string) (*domain.Appointment, error)
	Book(ctx context.Context, caller domain.IdentityClaim, in BookAppointmentInput) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, caller domain.IdentityClaim, id string, in UpdateStatusInput) (*domain.Appointment, error)
	Cancel(ctx context.Context, caller domain.IdentityClaim, id string) (*domain.Appointment, error)
}

// UserService is the admin user-management boundary.
type UserService interface {
	List(ctx context.Context, caller domain.IdentityClaim) ([]*domain.User, error)
	Delete(ctx context.Context, caller domain.IdentityClaim, id string) error
}
