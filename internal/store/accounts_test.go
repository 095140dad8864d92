package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamzaElHammoutidev/mobilitaxi-portal-sub000/internal/models"
)

func TestAccountStore_SeedKeepsPasswordHash(t *testing.T) {
	ctx := context.Background()
	kv := openKV(t)
	s := NewAccountStore(kv, testOptions(), plainHash)
	require.NoError(t, s.Load(ctx))

	reloaded := NewAccountStore(kv, testOptions(), nil)
	require.NoError(t, reloaded.Load(ctx))

	acc, err := reloaded.ByEmail("CHAUFFEUR@mobilitaxi.ca")
	require.NoError(t, err)
	assert.Equal(t, "hash:"+DemoPassword, acc.PasswordHash)
	assert.Equal(t, models.RoleCustomer, acc.Role)

	staff, err := reloaded.ByEmail(DemoStaffEmail)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, staff.Role)
}

func TestAccountStore_SeedRequiresHasher(t *testing.T) {
	s := NewAccountStore(openKV(t), testOptions(), nil)
	assert.Error(t, s.Load(context.Background()))
}

func TestAccountStore_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore(openKV(t), testOptions(), plainHash)
	require.NoError(t, s.Load(ctx))

	updated, err := s.UpdateProfile(ctx, "acc-1", models.ProfileUpdate{Phone: "438-555-0199"})
	require.NoError(t, err)
	assert.Equal(t, "438-555-0199", updated.Phone)
	assert.Equal(t, "Jean", updated.FirstName)

	_, err = s.UpdateProfile(ctx, "acc-1", models.ProfileUpdate{Email: DemoStaffEmail})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UpdateProfile(ctx, "acc-9", models.ProfileUpdate{Phone: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccountStore_PasswordAndLogin(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore(openKV(t), testOptions(), plainHash)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.SetPasswordHash(ctx, "acc-1", "hash:new"))
	require.NoError(t, s.TouchLogin(ctx, "acc-1"))

	acc, err := s.ByID("acc-1")
	require.NoError(t, err)
	assert.Equal(t, "hash:new", acc.PasswordHash)
	require.NotNil(t, acc.LastLogin)
	assert.Equal(t, fixedNow, *acc.LastLogin)
}
