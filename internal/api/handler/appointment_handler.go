package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

// Accepted appointment date layouts, tried in order. Dates without a zone are
// taken as UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// AppointmentHandler handles booking and the appointment lifecycle.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List returns the caller's appointments: by vet for vets, by customer for
// customers.
//
// @Summary   List my appointments
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Success   200  {array}   domain.Appointment
// @Failure   401  {object}  errorResponse
// @Failure   403  {object}  errorResponse
// @Router    /appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(c.Request().Context(), claim)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one appointment to a participant.
//
// @Summary   Get an appointment
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Appointment ID"
// @Success   200  {object}  domain.Appointment
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	a, err := h.service.Get(c.Request().Context(), claim, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Book creates a pending appointment with a vet.
//
// @Summary   Book an appointment
// @Tags      appointments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      bookAppointmentRequest  true  "Booking"
// @Success   201   {object}  domain.Appointment
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /appointments [post]
func (h *AppointmentHandler) Book(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req bookAppointmentRequest
	if err := bindRequired(c, &req, "vet_id and date are required"); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	a, err := h.service.Book(c.Request().Context(), claim, ports.BookAppointmentInput{
		VetID: strings.TrimSpace(req.VetID),
		Date:  date,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// UpdateStatus sets the status of an appointment. Only the assigned vet may
// do this.
//
// @Summary   Update appointment status
// @Tags      appointments
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string                    true  "Appointment ID"
// @Param     body  body      updateAppointmentRequest  true  "New status"
// @Success   200   {object}  domain.Appointment
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /appointments/{id} [put]
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateAppointmentRequest
	bindErr := bind(c, &req)

	a, err := h.service.UpdateStatus(c.Request().Context(), claim, c.Param("id"), ports.UpdateStatusInput{
		Status: req.Status,
		Err:    bindErr,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Cancel cancels an appointment; the record is kept with status cancelled.
//
// @Summary   Cancel an appointment
// @Tags      appointments
// @Produce   json
// @Security  BearerAuth
// @Param     id   path      string  true  "Appointment ID"
// @Success   200  {object}  domain.Appointment
// @Failure   403  {object}  errorResponse
// @Failure   404  {object}  errorResponse
// @Router    /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c echo.Context) error {
	claim, err := ctxClaims(c)
	if err != nil {
		return err
	}
	a, err := h.service.Cancel(c.Request().Context(), claim, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Errorf(domain.ErrValidation, "invalid date format")
}
