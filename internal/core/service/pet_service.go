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

const resourcePet = "pet"

// PetService implements ports.PetService with the same ownership rules as
// ProductService.
type PetService struct {
	repo  ports.PetRepository
	guard guard
	log   zerolog.Logger
}

// NewPetService builds a PetService. A nil audit sink discards events.
func NewPetService(repo ports.PetRepository, audit ports.AuditSink, log zerolog.Logger) *PetService {
	return &PetService{repo: repo, guard: newGuard(audit, log), log: log}
}

// List returns every pet listing. Listing is public.
func (s *PetService) List(ctx context.Context) ([]*domain.Pet, error) {
	return s.repo.List(ctx)
}

// Get returns one pet or domain.ErrPetNotFound.
func (s *PetService) Get(ctx context.Context, id string) (*domain.Pet, error) {
	return s.repo.FindByID(ctx, id)
}

// Create lists a new pet owned by the caller, who must be a seller.
func (s *PetService) Create(ctx context.Context, caller domain.IdentityClaim, in ports.CreatePetInput) (*domain.Pet, error) {
	if err := s.guard.authorize(caller, resourcePet, "create", "", authz.Roles(domain.RoleSeller)); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)
	if in.Name == "" || in.Species == "" {
		return nil, domain.Errorf(domain.ErrValidation, "name, species, age, and price are required")
	}
	if err := validateNonNegative("age", in.Age); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &domain.Pet{
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		Age:       in.Age,
		Price:     in.Price,
		SellerID:  caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	metrics.ListingsCreatedTotal.WithLabelValues(resourcePet).Inc()
	s.log.Info().Str("pet_id", p.ID).Str("seller_id", p.SellerID).Msg("pet created")
	return p, nil
}

// Update applies a partial update. Only the owning seller may update.
func (s *PetService) Update(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.PetPatch) (*domain.Pet, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owner := authz.Owner(p.SellerID).WithMessage("only the seller can update the pet")
	if err := s.guard.authorize(caller, resourcePet, "update", id, owner); err != nil {
		return nil, err
	}

	if patch.Err != nil {
		return nil, patch.Err
	}
	if patch.Name, err = trimmedField("name", patch.Name); err != nil {
		return nil, err
	}
	if patch.Species, err = trimmedField("species", patch.Species); err != nil {
		return nil, err
	}
	if patch.Age != nil {
		if err := validateNonNegative("age", *patch.Age); err != nil {
			return nil, err
		}
	}
	if patch.Price != nil {
		if err := validatePrice(*patch.Price); err != nil {
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

// Delete removes a pet. The owning seller or an admin may delete.
func (s *PetService) Delete(ctx context.Context, caller domain.IdentityClaim, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	owner := authz.Owner(p.SellerID, domain.RoleAdmin).WithMessage("only the seller or admin can delete the pet")
	if err := s.guard.authorize(caller, resourcePet, "delete", id, owner); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("pet_id", id).Str("actor_id", caller.ID).Msg("pet deleted")
	return nil
}
