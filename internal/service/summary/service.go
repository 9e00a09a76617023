// Package summary aggregates counts for the admin and staff dashboards.
package summary

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

const recentLogLimit = 25

// InventoryLister returns the full per-type stock view.
type InventoryLister interface {
	List(ctx context.Context) ([]*model.Inventory, error)
}

type Service struct {
	users     repository.UserRepository
	donors    repository.DonorRepository
	staff     repository.StaffRepository
	requests  repository.RequestRepository
	inventory repository.InventoryRepository
	stock     InventoryLister
}

func NewService(users repository.UserRepository, donors repository.DonorRepository, staff repository.StaffRepository,
	requests repository.RequestRepository, inventory repository.InventoryRepository, stock InventoryLister) *Service {
	return &Service{
		users:     users,
		donors:    donors,
		staff:     staff,
		requests:  requests,
		inventory: inventory,
		stock:     stock,
	}
}

// ComputeSummary counts users, stock and requests. It only reads its
// arguments.
func ComputeSummary(users []*model.User, stock []*model.Inventory, requests []*model.UrgentRequest) *model.Summary {
	s := &model.Summary{
		TotalUsers:          len(users),
		TotalInventoryTypes: len(stock),
		TotalRequests:       len(requests),
		LowStock:            []*model.Inventory{},
	}

	for _, u := range users {
		switch u.Status {
		case model.UserStatusActive:
			s.ActiveUsers++
		case model.UserStatusSuspended:
			s.SuspendedUsers++
		}
	}

	for _, row := range stock {
		s.TotalInventoryVolume += row.Quantity
		if row.LowStock {
			s.LowStock = append(s.LowStock, row)
		}
	}

	for _, r := range requests {
		switch r.Status {
		case model.RequestPending:
			s.PendingRequests++
		case model.RequestApproved:
			s.ApprovedRequests++
		case model.RequestFulfilled:
			s.FulfilledRequests++
		}
	}
	return s
}

func (s *Service) Summary(ctx context.Context) (*model.Summary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	stock, err := s.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.List(ctx, model.RequestFilter{})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ComputeSummary(users, stock, requests), nil
}

// Analytics adds recent ledger and request activity to the summary.
func (s *Service) Analytics(ctx context.Context) (*model.Analytics, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	invLogs, err := s.inventory.ListLogs(ctx, recentLogLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	reqLogs, err := s.requests.ListLogs(ctx, recentLogLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	pending, err := s.requests.List(ctx, model.RequestFilter{Status: model.RequestPending})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.Analytics{
		Summary:         summary,
		InventoryLogs:   invLogs,
		RequestLogs:     reqLogs,
		PendingRequests: pending,
	}, nil
}

func (s *Service) StaffDashboard(ctx context.Context, userID uuid.UUID) (*model.StaffDashboard, error) {
	dash := &model.StaffDashboard{HospitalName: "Unknown Hospital", LowStock: []*model.Inventory{}}
	if st, err := s.staff.GetByUserID(ctx, userID); err == nil && st.HospitalName != "" {
		dash.HospitalName = st.HospitalName
	}

	stock, err := s.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range stock {
		dash.TotalUnits += row.Quantity
		if row.LowStock {
			dash.LowStock = append(dash.LowStock, row)
		}
	}

	pending, err := s.requests.List(ctx, model.RequestFilter{Status: model.RequestPending})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	dash.PendingRequests = len(pending)

	if dash.TotalDonors, err = s.donors.Count(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}
	return dash, nil
}
