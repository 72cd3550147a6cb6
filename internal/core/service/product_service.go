package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawmarket/marketplace-api/internal/core/authz"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
	"github.com/pawmarket/marketplace-api/internal/pkg/metrics"
)

const resourceProduct = "product"

// ProductService implements ports.ProductService.
type ProductService struct {
	repo  ports.ProductRepository
	guard guard
	log   zerolog.Logger
}

// NewProductService builds a ProductService. A nil audit sink discards events.
func NewProductService(repo ports.ProductRepository, audit ports.AuditSink, log zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, guard: newGuard(audit, log), log: log}
}

// List returns every product. Listing is public.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// Get returns one product or domain.ErrProductNotFound.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create lists a new product owned by the caller, who must be a seller.
func (s *ProductService) Create(ctx context.Context, caller domain.IdentityClaim, in ports.CreateProductInput) (*domain.Product, error) {
	if err := s.guard.authorize(caller, resourceProduct, "create", "", authz.Roles(domain.RoleSeller)); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name, price, and stock are required")
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if err := validateNonNegative("stock", in.Stock); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SellerID:    caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(resourceProduct).Inc()
	s.log.Info().Str("product_id", p.ID).Str("seller_id", p.SellerID).Msg("product created")
	return p, nil
}

// Update applies a partial update. Only the owning seller may update; admins
// have no override here.
func (s *ProductService) Update(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := authz.Owner(p.SellerID).WithMessage("only the seller can update the product")
	if err := s.guard.authorize(caller, resourceProduct, "update", id, owner); err != nil {
		return nil, err
	}

	if patch.Err != nil {
		return nil, patch.Err
	}
	if patch.Name, err = trimmedField("name", patch.Name); err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Stock != nil {
		if err := validateNonNegative("stock", *patch.Stock); err != nil {
			return nil, err
		}
	}

	patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product. The owning seller or an admin may delete.
func (s *ProductService) Delete(ctx context.Context, caller domain.IdentityClaim, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	owner := authz.Owner(p.SellerID, domain.RoleAdmin).WithMessage("only the seller or admin can delete the product")
	if err := s.guard.authorize(caller, resourceProduct, "delete", id, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Str("actor_id", caller.ID).Msg("product deleted")
	return nil
}

func validatePrice(price float64) error {
	if price <= 0 {
		return domain.Errorf(domain.ErrValidation, "price must be greater than 0")
	}
	return nil
}

func validateNonNegative(field string, v int) error {
	if v < 0 {
		return domain.Errorf(domain.ErrValidation, "%s must be at least 0", field)
	}
	return nil
}

// trimmedField trims an optional patch value. A present value that is blank
// after trimming is rejected.
func trimmedField(field string, v *string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil, domain.Errorf(domain.ErrValidation, "%s cannot be empty", field)
	}
	return &t, nil
}
