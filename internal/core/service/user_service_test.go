package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmarket/marketplace-api/internal/core/domain"
	"github.com/pawmarket/marketplace-api/internal/core/ports"
)

func TestUserService_List_AdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.user(t, "root", domain.RoleAdmin)
	seller := f.user(t, "alice", domain.RoleSeller)

	users, err := f.users.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = f.users.List(ctx, seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualError(t, err, "only admins can access this")
}

func TestUserService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.user(t, "root", domain.RoleAdmin)
	carl := f.user(t, "carl", domain.RoleCustomer)

	assert.ErrorIs(t, f.users.Delete(ctx, carl, admin.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.users.Delete(ctx, admin, admin.ID), domain.ErrValidation)
	assert.ErrorIs(t, f.users.Delete(ctx, admin, "665f1c2e8a1b2c3d4e5f6a7b"), domain.ErrNotFound)

	require.NoError(t, f.users.Delete(ctx, admin, carl.ID))

	_, err := f.store.Users().FindByID(ctx, carl.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	revoked, err := f.store.Revocations().IsRevoked(ctx, carl.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestUserService_Delete_RestrictsUsersWithDependents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.user(t, "root", domain.RoleAdmin)
	seller := f.user(t, "alice", domain.RoleSeller)
	carl := f.user(t, "carl", domain.RoleCustomer)
	drV := f.user(t, "drV", domain.RoleVet)

	p, err := f.products.Create(ctx, seller, ports.CreateProductInput{Name: "Leash", Price: 9.99, Stock: 5})
	require.NoError(t, err)
	_, err = f.appointments.Book(ctx, carl, ports.BookAppointmentInput{VetID: drV.ID, Date: tomorrow()})
	require.NoError(t, err)

	for _, id := range []string{seller.ID, carl.ID, drV.ID} {
		assert.ErrorIs(t, f.users.Delete(ctx, admin, id), domain.ErrUserHasDependents)
	}

	require.NoError(t, f.products.Delete(ctx, seller, p.ID))
	assert.NoError(t, f.users.Delete(ctx, admin, seller.ID))
}
