package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalogue.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns every product.
//
// @Summary  List products
// @Tags     products
// @Produce  json
// @Success  200  {array}   domain.Product
// @Failure  500  {object}  errorResponse
// @Router   /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get returns one product.
//
// @Summary  Get a product
// @Tags     products
// @Produce  json
// @Param    id   path      string  true  "Product ID"
// @Success  200  {object}  domain.Product
// @Failure  404  {object}  errorResponse
// @Router   /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create lists a new product owned by the calling seller.
//
// @Summary   Create a product
// @Tags      products
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createProductRequest  true  "Product"
// @Success   201   {object}  domain.Product
// @Failure   400   {object}  errorResponse
// @Failure   401   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindRequired(c, &req, "name, price, and stock are required"); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), claim, ports.CreateProductInput{
		Name:        *req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       *req.Stock,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update applies a partial update; only the fields present in the body change.
//
// @Summary   Update a product
// @Tags      products
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                true  "Product ID"
// @Param     body  body      updateProductRequest  true  "Fields to change"
// @Success   200   {object}  domain.Product
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Failure   409   {object}  errorResponse
// @Router    /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	// A body that fails to decode is reported by the service after the
	// ownership check, so non-owners always see 403.
	var req updateProductRequest
	bindErr := bind(c, &req)

	p, err := h.service.Update(c.Request().Context(), claim, c.Param("id"), domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Err:         bindErr,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a product.
//
// @Summary   Delete a product
// @Tags      products
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Product ID"
// @Success   200  {object}  messageResponse
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claim, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted"})
}
