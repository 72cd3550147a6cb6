package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

// PetHandler handles HTTP requests for pet listings.
type PetHandler struct {
	service ports.PetService
}

func NewPetHandler(service ports.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// List returns every pet.
//
// @Summary  List pets
// @Tags     pets
// @Produce  json
// @Success  200  {array}  domain.Pet
// @Router   /pets [get]
func (h *PetHandler) List(c echo.Context) error {
	pets, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pets)
}

// Get returns one pet.
//
// @Summary  Get a pet
// @Tags     pets
// @Produce  json
// @Param    id   path      string  true  "Pet ID"
// @Success  200  {object}  domain.Pet
// @Failure  404  {object}  errorResponse
// @Router   /pets/{id} [get]
func (h *PetHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create lists a new pet owned by the calling seller.
//
// @Summary   Create a pet
// @Tags      pets
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createPetRequest  true  "Pet"
// @Success   201   {object}  domain.Pet
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /pets [post]
func (h *PetHandler) Create(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createPetRequest
	if err := bindRequired(c, &req, "name, species, age, and price are required"); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), claim, ports.CreatePetInput{
		Name:    *req.Name,
		Species: *req.Species,
		Breed:   req.Breed,
		Age:     *req.Age,
		Price:   *req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// Update applies a partial update.
//
// @Summary   Update a pet
// @Tags      pets
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string            true  "Pet ID"
// @Param     body  body      updatePetRequest  true  "Fields to change"
// @Success   200   {object}  domain.Pet
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /pets/{id} [put]
func (h *PetHandler) Update(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updatePetRequest
	bindErr := bind(c, &req)

	p, err := h.service.Update(c.Request().Context(), claim, c.Param("id"), domain.PetPatch{
		Name:    req.Name,
		Species: req.Species,
		Breed:   req.Breed,
		Age:     req.Age,
		Price:   req.Price,
		Err:     bindErr,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a pet.
//
// @Summary   Delete a pet
// @Tags      pets
// @Security  BearerAuth
// @Param     id   path      string  true  "Pet ID"
// @Success   200  {object}  messageResponse
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /pets/{id} [delete]
func (h *PetHandler) Delete(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), claim, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Pet deleted"})
}
