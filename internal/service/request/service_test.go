package request

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	"github.com/bloodlink/bloodlink-api/internal/service/matching"
	"github.com/bloodlink/bloodlink-api/internal/service/notification"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

// racingRequests loses every compare-and-swap, as if another writer got
// there first.
type racingRequests struct {
	repository.RequestRepository
}

func (racingRequests) UpdateStatus(context.Context, uuid.UUID, model.RequestStatus, model.RequestStatus, *uuid.UUID) error {
	return fmt.Errorf("failed to update request status: %w", repository.ErrConflict)
}

func newTestService(store *memory.Store) *Service {
	notifier := notification.NewService(store.Notifications(), store.Users(), nil, "notifications", nil)
	matcher := matching.NewService(store.Donors(), notifier, nil)
	return NewService(store.Requests(), store.Staff(), store.Users(), matcher, nil)
}

func addStaff(t *testing.T, store *memory.Store, hospital string) *model.Principal {
	t.Helper()
	acct := &model.Account{
		User:  &model.User{FullName: "Sarah Staff", Email: "staff@bloodlink.com", Role: model.RoleStaff, Status: model.UserStatusActive},
		Staff: &model.Staff{StaffName: "Sarah Staff", HospitalName: hospital},
	}
	require.NoError(t, store.Users().CreateAccount(context.Background(), acct))
	return &model.Principal{UserID: acct.User.ID, Role: model.RoleStaff, ProfileID: acct.ProfileID()}
}

func addEligibleDonor(t *testing.T, store *memory.Store, email, bloodType string) {
	t.Helper()
	d := &model.Donor{DonorName: email, BloodType: bloodType}
	acct := &model.Account{
		User:  &model.User{FullName: email, Email: email, Role: model.RoleDonor, Status: model.UserStatusActive},
		Donor: d,
	}
	require.NoError(t, store.Users().CreateAccount(context.Background(), acct))
	require.NoError(t, store.Donors().SetEligibility(context.Background(), d.ID, true, ""))
}

func createRequest(t *testing.T, svc *Service, actor *model.Principal) *model.CreateRequestResult {
	t.Helper()
	res, err := svc.Create(context.Background(), actor, &model.CreateRequestRequest{
		BloodType:    "O-",
		UnitsNeeded:  5,
		UrgencyLevel: model.UrgencyHigh,
		PatientInfo:  "Emergency surgery for trauma patient",
	})
	require.NoError(t, err)
	return res
}

func TestCreate_UsesStaffHospitalAndNotifies(t *testing.T) {
	store := memory.NewStore()
	staff := addStaff(t, store, "St. Mary's")
	addEligibleDonor(t, store, "mary@example.com", "O-")
	svc := newTestService(store)

	res := createRequest(t, svc, staff)
	assert.Equal(t, "St. Mary's", res.Request.HospitalName)
	assert.Equal(t, model.RequestPending, res.Request.Status)
	require.NotNil(t, res.Match)
	assert.Equal(t, 1, res.Match.DonorsNotified)

	notes := store.AllNotifications()
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "URGENT: St. Mary's needs 5 units of O- blood.")

	logs := store.RequestLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.RequestActionCreate, logs[0].Action)
}

func TestCreate_DefaultHospital(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)

	res := createRequest(t, svc, &model.Principal{UserID: uuid.New(), Role: model.RoleAdmin})
	assert.Equal(t, DefaultHospitalName, res.Request.HospitalName)
	assert.Equal(t, 0, res.Match.DonorsNotified)
	assert.Equal(t, "No eligible donors found with O- blood type", res.Match.Message)
}

func TestUpdateStatus_StateMachine(t *testing.T) {
	store := memory.NewStore()
	staff := addStaff(t, store, "City General Hospital")
	svc := newTestService(store)
	req := createRequest(t, svc, staff).Request

	got, err := svc.Fulfill(context.Background(), req.ID, &staff.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestFulfilled, got.Status)
	require.NotNil(t, got.HandledBy)
	assert.Equal(t, staff.UserID, *got.HandledBy)

	// Same status is a no-op.
	_, err = svc.UpdateStatus(context.Background(), req.ID, model.RequestFulfilled, &staff.UserID)
	require.NoError(t, err)
	assert.Len(t, store.RequestLogs(), 2)

	_, err = svc.UpdateStatus(context.Background(), req.ID, model.RequestPending, &staff.UserID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.Cancel(context.Background(), req.ID, &staff.UserID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = svc.UpdateStatus(context.Background(), req.ID, "Lost", nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	req := createRequest(t, svc, nil).Request

	racing := NewService(racingRequests{store.Requests()}, store.Staff(), store.Users(), svc.matcher, nil)
	_, err := racing.UpdateStatus(context.Background(), req.ID, model.RequestApproved, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDetail_IncludesStaffName(t *testing.T) {
	store := memory.NewStore()
	staff := addStaff(t, store, "City General Hospital")
	svc := newTestService(store)
	req := createRequest(t, svc, staff).Request

	detail, err := svc.Detail(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sarah Staff", detail.StaffName)

	_, err = svc.Detail(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestNotify_TerminalRequestRejected(t *testing.T) {
	store := memory.NewStore()
	addEligibleDonor(t, store, "mary@example.com", "O-")
	svc := newTestService(store)
	req := createRequest(t, svc, nil).Request

	res, err := svc.Notify(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.DonorsNotified)
	assert.Len(t, store.AllNotifications(), 2)

	_, err = svc.Cancel(context.Background(), req.ID, nil)
	require.NoError(t, err)
	_, err = svc.Notify(context.Background(), req.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestDelete_LogsAndRemoves(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store)
	req := createRequest(t, svc, nil).Request

	require.NoError(t, svc.Delete(context.Background(), req.ID, nil))
	logs := store.RequestLogs()
	assert.Equal(t, model.RequestActionDelete, logs[len(logs)-1].Action)

	err := svc.Delete(context.Background(), req.ID, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
