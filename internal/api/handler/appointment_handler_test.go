package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/pawmarket/marketplace-api/internal/api/middleware"
	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

type stubAppointmentService struct {
	ports.AppointmentService
	bookFn func(ctx context.Context, caller domain.IdentityClaim, in ports.BookAppointmentInput) (*domain.Appointment, error)
}

func (s *stubAppointmentService) Book(ctx context.Context, caller domain.IdentityClaim, in ports.BookAppointmentInput) (*domain.Appointment, error) {
	return s.bookFn(ctx, caller, in)
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2026-11-02T10:30:00Z":      time.Date(2026, 11, 2, 10, 30, 0, 0, time.UTC),
		"2026-11-02T10:30:00+02:00": time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC),
		"2026-11-02T10:30:00":       time.Date(2026, 11, 2, 10, 30, 0, 0, time.UTC),
		"2026-11-02":                time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseDate(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}

	for _, in := range []string{"tomorrow", "02/11/2026", "2026-13-01"} {
		if _, err := parseDate(in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestAppointmentHandler_Book(t *testing.T) {
	caller := domain.IdentityClaim{ID: "c1", Role: domain.RoleCustomer}
	stub := &stubAppointmentService{
		bookFn: func(ctx context.Context, got domain.IdentityClaim, in ports.BookAppointmentInput) (*domain.Appointment, error) {
			if got != caller || in.VetID != "v1" || in.Date.IsZero() {
				t.Fatalf("unexpected call: %+v %+v", got, in)
			}
			return &domain.Appointment{ID: "a1", UserID: got.ID, VetID: in.VetID, Status: domain.AppointmentPending, Date: in.Date}, nil
		},
	}
	handler := NewAppointmentHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/appointments", `{"vet_id":"v1","date":"2026-11-02"}`)
	c.Set(middleware.ClaimsKey, caller)
	if err := handler.Book(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAppointmentHandler_Book_Validation(t *testing.T) {
	stub := &stubAppointmentService{
		bookFn: func(ctx context.Context, caller domain.IdentityClaim, in ports.BookAppointmentInput) (*domain.Appointment, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAppointmentHandler(stub)

	cases := map[string]string{
		`{"date":"2026-11-02"}`:           "vet_id and date are required",
		`{"vet_id":"v1"}`:                 "vet_id and date are required",
		`{"vet_id":"v1","date":"friday"}`: "invalid date format",
	}
	for body, msg := range cases {
		c, _ := newJSONContext(http.MethodPost, "/appointments", body)
		c.Set(middleware.ClaimsKey, domain.IdentityClaim{ID: "c1", Role: domain.RoleCustomer})

		err := handler.Book(c)
		if !errors.Is(err, domain.ErrValidation) || err.Error() != msg {
			t.Fatalf("%s: expected %q, got %v", body, msg, err)
		}
	}
}

func TestAppointmentHandler_RequiresClaims(t *testing.T) {
	handler := NewAppointmentHandler(&stubAppointmentService{})

	c, _ := newJSONContext(http.MethodGet, "/appointments", "")
	if err := handler.List(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
