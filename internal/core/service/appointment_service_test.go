package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

func tomorrow() time.Time { return time.Now().Add(24 * time.Hour).Truncate(time.Second) }

func TestAppointmentService_Book(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)

	a, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentPending, a.Status)
	assert.Equal(t, carl.ID, a.UserID)
	assert.Equal(t, drV.ID, a.VetID)
}

func TestAppointmentService_Book_RejectsEveryNonVet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)

	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleSeller, domain.RoleAdmin} {
		notVet := f.user(t, "not-vet-"+string(role), role)
		_, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: notVet.ID, Date: tomorrow()})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.EqualError(t, err, "invalid vet")
	}

	_, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: "665f1c2e8a1b2c3d4e5f6a7b", Date: tomorrow()})
	assert.EqualError(t, err, "invalid vet")

	_, err = f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: "", Date: tomorrow()})
	assert.EqualError(t, err, "vet_id and date are required")
}

func TestAppointmentService_Book_RequiresCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	drV := f.user(t, "drV", domain.RoleVet)
	seller := f.user(t, "alice", domain.RoleSeller)

	_, err := f.appointments.Book(ctx, seller, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualError(t, err, "only customers can access this")
}

func TestAppointmentService_UpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)
	drW := f.user(t, "drW", domain.RoleVet)
	admin := f.user(t, "root", domain.RoleAdmin)

	a, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)

	for _, status := range []string{"approved", "rejected", "cancelled", "pending"} {
		got, err := f.appointments.UpdateStatus(ctx, drV, a.ID, ports.UpdateStatusInput{Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, domain.AppointmentStatus(status), got.Status)
	}

	for _, status := range []string{"", "done", "APPROVED", "canceled"} {
		_, err := f.appointments.UpdateStatus(ctx, drV, a.ID, ports.UpdateStatusInput{Status: status})
		assert.ErrorIs(t, err, domain.ErrValidation, status)
		assert.EqualError(t, err, "invalid status")
	}

	_, err = f.appointments.UpdateStatus(ctx, carl, a.ID, ports.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualError(t, err, "customers can only cancel appointments")

	_, err = f.appointments.UpdateStatus(ctx, drW, a.ID, ports.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualError(t, err, "unauthorized")

	_, err = f.appointments.UpdateStatus(ctx, admin, a.ID, ports.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.appointments.UpdateStatus(ctx, drV, "665f1c2e8a1b2c3d4e5f6a7b", ports.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointmentService_UpdateStatus_BodyErrorAfterAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	dana := f.user(t, "dana", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)

	a, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)

	in := ports.UpdateStatusInput{Err: domain.Errorf(domain.ErrValidation, "invalid request body")}

	_, err = f.appointments.UpdateStatus(ctx, carl, a.ID, in)
	assert.EqualError(t, err, "customers can only cancel appointments")
	_, err = f.appointments.UpdateStatus(ctx, dana, a.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.appointments.UpdateStatus(ctx, drV, a.ID, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "invalid request body")
}

func TestAppointmentService_CancelKeepsRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	dana := f.user(t, "dana", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)

	a, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)

	_, err = f.appointments.Cancel(ctx, dana, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := f.appointments.Cancel(ctx, carl, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentCancelled, cancelled.Status)

	again, err := f.appointments.Cancel(ctx, drV, a.ID)
	require.NoError(t, err, "cancelling twice is a no-op")
	assert.Equal(t, cancelled.Version, again.Version)

	list, err := f.appointments.List(ctx, drV)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.AppointmentCancelled, list[0].Status)
}

func TestAppointmentService_ListIsScopedByRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	dana := f.user(t, "dana", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)
	drW := f.user(t, "drW", domain.RoleVet)
	seller := f.user(t, "alice", domain.RoleSeller)

	_, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)
	_, err = f.appointments.Book(ctx, dana, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)
	_, err = f.appointments.Book(ctx, dana, ports.BookAppointmentInput{VetID: drW.ID, Date: tomorrow()})
	require.NoError(t, err)

	byCarl, err := f.appointments.List(ctx, carl)
	require.NoError(t, err)
	assert.Len(t, byCarl, 1)

	byDana, err := f.appointments.List(ctx, dana)
	require.NoError(t, err)
	assert.Len(t, byDana, 2)

	byV, err := f.appointments.List(ctx, drV)
	require.NoError(t, err)
	assert.Len(t, byV, 2)

	_, err = f.appointments.List(ctx, seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAppointmentService_Get_ParticipantsOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	carl := f.user(t, "carl", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)
	drW := f.user(t, "drW", domain.RoleVet)

	a, err := f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)

	_, err = f.appointments.Get(ctx, carl, a.ID)
	assert.NoError(t, err)
	_, err = f.appointments.Get(ctx, drV, a.ID)
	assert.NoError(t, err)
	_, err = f.appointments.Get(ctx, drW, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
