package request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// DefaultHospitalName is used when neither the request nor the staff
// profile names a hospital.
const DefaultHospitalName = "City General Hospital"

type Matcher interface {
	NotifyMatchingDonors(ctx context.Context, req *model.UrgentRequest, hospital string) (*model.MatchResult, error)
}

type Service struct {
	requests repository.RequestRepository
	staff    repository.StaffRepository
	users    repository.UserRepository
	matcher  Matcher
	metrics  *metrics.Metrics
}

func NewService(requests repository.RequestRepository, staff repository.StaffRepository, users repository.UserRepository, matcher Matcher, m *metrics.Metrics) *Service {
	return &Service{
		requests: requests,
		staff:    staff,
		users:    users,
		matcher:  matcher,
		metrics:  m,
	}
}

func (s *Service) hospitalFor(ctx context.Context, actor *model.Principal, explicit string) string {
	if h := strings.TrimSpace(explicit); h != "" {
		return h
	}
	if actor != nil && actor.Role == model.RoleStaff {
		st, err := s.staff.GetByUserID(ctx, actor.UserID)
		if err == nil && strings.TrimSpace(st.HospitalName) != "" {
			return st.HospitalName
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("user_id", actor.UserID.String()).Msg("failed to load staff profile")
		}
	}
	return DefaultHospitalName
}

// Create stores a Pending request and immediately notifies matching donors.
// A matching failure is logged and does not undo the request.
func (s *Service) Create(ctx context.Context, actor *model.Principal, in *model.CreateRequestRequest) (*model.CreateRequestResult, error) {
	bt, ok := model.NormalizeBloodType(in.BloodType)
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid blood type %q", in.BloodType), nil)
	}
	if in.UnitsNeeded < 1 {
		return nil, apperrors.BadRequest("units_needed must be at least 1", nil)
	}
	switch in.UrgencyLevel {
	case model.UrgencyHigh, model.UrgencyMedium, model.UrgencyLow:
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid urgency level %q", in.UrgencyLevel), nil)
	}

	req := &model.UrgentRequest{
		ID:           uuid.New(),
		BloodType:    bt.String(),
		UnitsNeeded:  in.UnitsNeeded,
		UrgencyLevel: in.UrgencyLevel,
		Status:       model.RequestPending,
		HospitalName: s.hospitalFor(ctx, actor, in.HospitalName),
		PatientInfo:  strings.TrimSpace(in.PatientInfo),
		Notes:        strings.TrimSpace(in.Notes),
	}
	var actorID *uuid.UUID
	if actor != nil {
		id := actor.UserID
		actorID = &id
		req.RequestedBy = &id
	}

	if err := s.requests.Create(ctx, req, actorID); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.metrics.RequestTransition(string(model.RequestPending))

	log.Info().
		Str("request_id", req.ID.String()).
		Str("blood_type", req.BloodType).
		Str("urgency", string(req.UrgencyLevel)).
		Msg("urgent request created")

	result := &model.CreateRequestResult{Request: req}
	match, err := s.matcher.NotifyMatchingDonors(ctx, req, req.HospitalName)
	if err != nil {
		log.Error().Err(err).Str("request_id", req.ID.String()).Msg("failed to notify matching donors")
		return result, nil
	}
	result.Match = match
	return result, nil
}

func (s *Service) List(ctx context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", filter.Status), nil)
	}
	if filter.BloodType != "" {
		bt, ok := model.NormalizeBloodType(filter.BloodType)
		if !ok {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid blood type %q", filter.BloodType), nil)
		}
		filter.BloodType = bt.String()
	}

	items, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.UrgentRequest, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("request", err)
		}
		return nil, apperrors.Internal(err)
	}
	return req, nil
}

// Detail returns the request with the name of the staff member who raised it.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*model.UrgentRequestDetail, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &model.UrgentRequestDetail{UrgentRequest: req}
	if req.RequestedBy == nil {
		return detail, nil
	}

	if st, err := s.staff.GetByUserID(ctx, *req.RequestedBy); err == nil {
		detail.StaffName = st.StaffName
	} else if u, err := s.users.Get(ctx, *req.RequestedBy); err == nil {
		detail.StaffName = u.FullName
	}
	return detail, nil
}

// UpdateStatus moves a request along its state machine. Setting the current
// status again succeeds without writing anything.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to model.RequestStatus, actor *uuid.UUID) (*model.UrgentRequest, error) {
	if !to.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", to), nil)
	}

	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == to {
		return req, nil
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot change request from %s to %s", req.Status, to), nil)
	}

	if err := s.requests.UpdateStatus(ctx, id, req.Status, to, actor); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, apperrors.Conflict("request was modified concurrently, reload and try again", err)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("request", err)
		}
		return nil, apperrors.Internal(err)
	}
	s.metrics.RequestTransition(string(to))

	log.Info().
		Str("request_id", id.String()).
		Str("from", string(req.Status)).
		Str("to", string(to)).
		Msg("request status changed")

	return s.Get(ctx, id)
}

func (s *Service) Fulfill(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.UrgentRequest, error) {
	return s.UpdateStatus(ctx, id, model.RequestFulfilled, actor)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor *uuid.UUID) (*model.UrgentRequest, error) {
	return s.UpdateStatus(ctx, id, model.RequestCancelled, actor)
}

// Notify re-runs donor matching for an open request.
func (s *Service) Notify(ctx context.Context, id uuid.UUID) (*model.MatchResult, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, apperrors.Conflict(fmt.Sprintf("request is already %s", req.Status), nil)
	}
	hospital := req.HospitalName
	if hospital == "" {
		hospital = DefaultHospitalName
	}
	return s.matcher.NotifyMatchingDonors(ctx, req, hospital)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	if err := s.requests.Delete(ctx, id, actor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("request", err)
		}
		return apperrors.Internal(err)
	}
	log.Info().Str("request_id", id.String()).Msg("request deleted")
	return nil
}
