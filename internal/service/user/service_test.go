package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bloodlink/bloodlink-api/internal/config"
	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	"github.com/bloodlink/bloodlink-api/internal/service/account"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.Store, security.PasswordHasher) {
	t.Helper()
	store := memory.NewStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	cipher, err := security.NewFieldCipher("")
	require.NoError(t, err)
	accounts := account.NewService(store.Users(), hasher, cipher)
	return NewService(store.Users(), accounts, email.NewService(config.SMTPConfig{})), store, hasher
}

func TestCreateUser_TempPasswordAndStatus(t *testing.T) {
	svc, store, hasher := newTestService(t)

	acct, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{
		FullName:     "Sam Staff",
		Email:        "Sam@Example.com",
		Role:         model.RoleStaff,
		Status:       model.UserStatusSuspended,
		HospitalName: "Mercy",
	})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", acct.User.Email)
	assert.Equal(t, model.UserStatusSuspended, acct.User.Status)
	require.NotNil(t, acct.Staff)
	assert.Equal(t, "Mercy", acct.Staff.HospitalName)

	stored, err := store.Users().GetByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(stored.PasswordHash, TempPassword))
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	svc, _, _ := newTestService(t)
	a, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{FullName: "A", Email: "a@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), &model.CreateUserRequest{FullName: "B", Email: "b@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), a.User.ID, &model.UpdateUserRequest{FullName: "A", Email: "b@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	u, err := svc.UpdateUser(context.Background(), a.User.ID, &model.UpdateUserRequest{FullName: "Alice", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FullName)
}

func TestToggleStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	admin := uuid.New()
	a, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{FullName: "A", Email: "a@example.com", Role: model.RoleOrganizer})
	require.NoError(t, err)

	u, err := svc.ToggleStatus(context.Background(), a.User.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusSuspended, u.Status)

	u, err = svc.ToggleStatus(context.Background(), a.User.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, u.Status)

	_, err = svc.ToggleStatus(context.Background(), a.User.ID, a.User.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestDeleteUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	admin := uuid.New()
	a, err := svc.CreateUser(context.Background(), &model.CreateUserRequest{FullName: "A", Email: "a@example.com", Role: model.RoleDonor, BloodType: "O+", Age: 30})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), a.User.ID, admin))
	_, err = svc.GetUser(context.Background(), a.User.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = svc.DeleteUser(context.Background(), a.User.ID, admin)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
