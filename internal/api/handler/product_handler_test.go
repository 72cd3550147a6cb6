package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/pawmarket/marketplace-api/internal/api/middleware"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

type stubProductService struct {
	ports.ProductService
	createFn func(ctx context.Context, caller domain.IdentityClaim, in ports.CreateProductInput) (*domain.Product, error)
	updateFn func(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, caller domain.IdentityClaim, in ports.CreateProductInput) (*domain.Product, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubProductService) Update(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func TestProductHandler_Create_ZeroStockIsPresent(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, caller domain.IdentityClaim, in ports.CreateProductInput) (*domain.Product, error) {
			if in.Name != "Leash" || in.Price != 9.5 || in.Stock != 0 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Product{ID: "p1", SellerID: caller.ID}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/products", `{"name":"Leash","price":9.5,"stock":0}`)
	c.Set(middleware.ClaimsKey, domain.IdentityClaim{ID: "s1", Role: domain.RoleSeller})
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Create_MissingFields(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, caller domain.IdentityClaim, in ports.CreateProductInput) (*domain.Product, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	for _, body := range []string{`{}`, `{"name":"Leash","price":9.5}`, `{"price":1,"stock":1}`} {
		c, _ := newJSONContext(http.MethodPost, "/products", body)
		c.Set(middleware.ClaimsKey, domain.IdentityClaim{ID: "s1", Role: domain.RoleSeller})

		err := handler.Create(c)
		if !errors.Is(err, domain.ErrValidation) || err.Error() != "name, price, and stock are required" {
			t.Fatalf("%s: unexpected error %v", body, err)
		}
	}
}

func TestProductHandler_Update_PassesOnlyPresentFields(t *testing.T) {
	stub := &stubProductService{
		updateFn: func(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error) {
			if id != "p1" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Price == nil || *patch.Price != 12 {
				t.Fatalf("price not passed: %+v", patch)
			}
			if patch.Name != nil || patch.Description != nil || patch.Stock != nil {
				t.Fatalf("absent fields passed: %+v", patch)
			}
			return &domain.Product{ID: id}, nil
		},
	}
	handler := NewProductHandler(stub)

	c, rec := newJSONContext(http.MethodPut, "/products/p1", `{"price":12}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	c.Set(middleware.ClaimsKey, domain.IdentityClaim{ID: "s1", Role: domain.RoleSeller})
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductHandler_Update_DefersBodyError(t *testing.T) {
	stub := &stubProductService{
		updateFn: func(ctx context.Context, caller domain.IdentityClaim, id string, patch domain.ProductPatch) (*domain.Product, error) {
			if !errors.Is(patch.Err, domain.ErrValidation) {
				t.Fatalf("expected decoding error in patch, got %v", patch.Err)
			}
			return nil, domain.Errorf(domain.ErrForbidden, "only the seller can update the product")
		},
	}
	handler := NewProductHandler(stub)

	c, _ := newJSONContext(http.MethodPut, "/products/p1", `{"price":"cheap"}`)
	c.SetParamNames("id")
	c.SetParamValues("p1")
	c.Set(middleware.ClaimsKey, domain.IdentityClaim{ID: "s2", Role: domain.RoleSeller})

	err := handler.Update(c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected the service decision, got %v", err)
	}
}
