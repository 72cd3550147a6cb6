package ports

import (
	"context"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// ProductRepository persists products.
type ProductRepository interface {
	// Create assigns ID and Version on p.
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	// Update writes p only if the stored version still equals p.Version,
	// otherwise it returns domain.ErrStaleWrite. On success p.Version is
	// incremented.
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
}

// PetRepository persists pets with the same contract as ProductRepository.
type PetRepository interface {
	Create(ctx context.Context, p *domain.Pet) error
	FindByID(ctx context.Context, id string) (*domain.Pet, error)
	List(ctx context.Context) ([]*domain.Pet, error)
	Update(ctx context.Context, p *domain.Pet) error
	Delete(ctx context.Context, id string) error
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
}
