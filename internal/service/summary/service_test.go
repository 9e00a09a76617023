package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	"github.com/bloodlink/bloodlink-api/internal/service/inventory"
)

func TestComputeSummary(t *testing.T) {
	users := []*model.User{
		{Status: model.UserStatusActive},
		{Status: model.UserStatusActive},
		{Status: model.UserStatusSuspended},
	}
	stock := []*model.Inventory{
		{BloodType: "O+", Quantity: 25},
		{BloodType: "O-", Quantity: 1, LowStock: true},
	}
	requests := []*model.UrgentRequest{
		{Status: model.RequestPending},
		{Status: model.RequestApproved},
		{Status: model.RequestFulfilled},
		{Status: model.RequestFulfilled},
		{Status: model.RequestCancelled},
	}

	s := ComputeSummary(users, stock, requests)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, 2, s.ActiveUsers)
	assert.Equal(t, 1, s.SuspendedUsers)
	assert.Equal(t, 2, s.TotalInventoryTypes)
	assert.Equal(t, 26, s.TotalInventoryVolume)
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "O-", s.LowStock[0].BloodType)
	assert.Equal(t, 5, s.TotalRequests)
	assert.Equal(t, 1, s.PendingRequests)
	assert.Equal(t, 1, s.ApprovedRequests)
	assert.Equal(t, 2, s.FulfilledRequests)

	assert.Equal(t, s, ComputeSummary(users, stock, requests))
}

func newTestService(store *memory.Store) *Service {
	stock := inventory.NewService(store.Inventory(), inventory.Options{})
	return NewService(store.Users(), store.Donors(), store.Staff(), store.Requests(), store.Inventory(), stock)
}

func TestSummary_Idempotent(t *testing.T) {
	store := memory.NewStore()
	for _, bt := range model.AllBloodTypes {
		store.PutInventory(bt.String(), 15)
	}
	require.NoError(t, store.Requests().Create(context.Background(), &model.UrgentRequest{BloodType: "O-", UnitsNeeded: 5, UrgencyLevel: model.UrgencyHigh}, nil))
	svc := newTestService(store)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	second, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 8, first.TotalInventoryTypes)
	assert.Equal(t, 120, first.TotalInventoryVolume)
	assert.Equal(t, 1, first.PendingRequests)
}

func TestAnalytics_RecentLogs(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 30; i++ {
		_, err := store.Inventory().Apply(context.Background(), "A+", model.InventoryAdd, 1, nil)
		require.NoError(t, err)
	}
	svc := newTestService(store)

	a, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Len(t, a.InventoryLogs, 25)
	assert.Equal(t, 30, a.InventoryLogs[0].NewQuantity)
	assert.Empty(t, a.PendingRequests)
}

func TestStaffDashboard(t *testing.T) {
	store := memory.NewStore()
	acct := &model.Account{
		User:  &model.User{FullName: "Sarah", Email: "staff@bloodlink.com", Role: model.RoleStaff, Status: model.UserStatusActive},
		Staff: &model.Staff{StaffName: "Sarah", HospitalName: "City General Hospital"},
	}
	require.NoError(t, store.Users().CreateAccount(context.Background(), acct))
	store.PutInventory("O+", 25)
	store.PutDonor(&model.Donor{DonorName: "Walk In", BloodType: "O+"})

	dash, err := newTestService(store).StaffDashboard(context.Background(), acct.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "City General Hospital", dash.HospitalName)
	assert.Equal(t, 25, dash.TotalUnits)
	assert.Equal(t, 1, dash.TotalDonors)
	assert.Len(t, dash.LowStock, 7)
}
