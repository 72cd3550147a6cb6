package handler

import (
	"time"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email"    example:"alice@example.com"`
	Password string `json:"password" example:"s3cret!"`
	Role     string `json:"role"     example:"seller"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userProjection never carries the password hash.
type userProjection struct {
	ID        string      `json:"id"`
	Username  string      `json:"username,omitempty"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

type registerResponse struct {
	Message string         `json:"message"`
	User    userProjection `json:"user"`
}

type loginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        userProjection `json:"user"`
}

// --- Listings ---
//
// Create requests use pointer fields so that "absent" and "zero" differ:
// stock 0 is valid but a missing stock is not.

type createProductRequest struct {
	Name        *string  `json:"name"        validate:"required"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"       validate:"required"`
	Stock       *int     `json:"stock"       validate:"required"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

type createPetRequest struct {
	Name    *string  `json:"name"    validate:"required"`
	Species *string  `json:"species" validate:"required"`
	Breed   string   `json:"breed"`
	Age     *int     `json:"age"     validate:"required"`
	Price   *float64 `json:"price"   validate:"required"`
}

type updatePetRequest struct {
	Name    *string  `json:"name"`
	Species *string  `json:"species"`
	Breed   *string  `json:"breed"`
	Age     *int     `json:"age"`
	Price   *float64 `json:"price"`
}

// --- Appointments ---

type bookAppointmentRequest struct {
	VetID string `json:"vet_id" validate:"required"`
	Date  string `json:"date"   validate:"required" example:"2026-11-02T10:30:00"`
}

type updateAppointmentRequest struct {
	Status string `json:"status" example:"approved"`
}
