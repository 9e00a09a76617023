package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	cipher, err := security.NewFieldCipher("")
	require.NoError(t, err)
	return NewService(store.Users(), security.NewBcryptHasher(bcrypt.MinCost), cipher), store
}

func TestCreate_DonorGetsPendingProfile(t *testing.T) {
	svc, store := newTestService(t)

	account, err := svc.Create(context.Background(), NewAccount{
		FullName: "John Smith",
		Email:    "John@Example.com ",
		Password: "donor123",
		Role:     model.RoleDonor,
		Profile:  Profile{BloodType: "a positive", Age: 30},
	})
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", account.User.Email)
	assert.Equal(t, model.UserStatusActive, account.User.Status)
	require.NotNil(t, account.Donor)
	assert.Equal(t, "A+", account.Donor.BloodType)
	assert.False(t, account.Donor.EligibilityStatus)
	assert.Equal(t, model.ReasonPendingVerification, account.Donor.DisqualificationReason)

	donor, err := store.Donors().GetByUserID(context.Background(), account.User.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Donor.ID, donor.ID)
}

func TestCreate_StaffDefaultsHospital(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Create(context.Background(), NewAccount{
		FullName: "Nurse Joy", Email: "joy@example.com", Password: "secret1", Role: model.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultHospitalName, account.Staff.HospitalName)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	in := NewAccount{FullName: "A", Email: "dup@example.com", Password: "secret1", Role: model.RoleAdmin}

	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	appErr, _ := apperrors.As(err)
	assert.Equal(t, MsgEmailTaken, appErr.Message)
}

func TestCreate_DonorNeedsBloodType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), NewAccount{
		FullName: "X", Email: "x@example.com", Password: "secret1", Role: model.RoleDonor,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestCreate_ShortPassword(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), NewAccount{
		FullName: "X", Email: "x@example.com", Password: "abc", Role: model.RoleAdmin,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}
