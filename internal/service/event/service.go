// Package event manages blood drives on behalf of their organizers.
package event

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

const recentEvents = 5

const (
	msgAttendanceCancelled = "Cannot record attendance for a cancelled event"
	msgAttendanceClosed    = "Attendance can only be recorded for pending or confirmed registrations"
)

type Service struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	donors        repository.DonorRepository
	now           func() time.Time
}

func NewService(events repository.EventRepository, registrations repository.RegistrationRepository, donors repository.DonorRepository) *Service {
	return &Service{
		events:        events,
		registrations: registrations,
		donors:        donors,
		now:           time.Now,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ComputeStats summarises the registrations of one event.
func ComputeStats(regs []*model.RegistrationDetail) *model.RegistrationStats {
	stats := &model.RegistrationStats{Total: len(regs), BloodTypes: map[string]int{}}
	for _, r := range regs {
		switch r.Status {
		case model.RegistrationConfirmed:
			stats.Confirmed++
		case model.RegistrationAttended:
			stats.Attended++
		}
		if r.BloodType != "" {
			stats.BloodTypes[r.BloodType]++
		}
	}
	if stats.Total > 0 {
		stats.AttendanceRate = round1(float64(stats.Attended) / float64(stats.Total) * 100)
	}
	return stats
}

// ComputeDashboard derives the organizer dashboard from the organizer's
// events, newest first.
func ComputeDashboard(events []*model.EventWithCounts, now time.Time) *model.OrganizerDashboard {
	dash := &model.OrganizerDashboard{
		TotalEvents:    len(events),
		RecentEvents:   []*model.EventWithCounts{},
		UpcomingEvents: []*model.EventWithCounts{},
	}

	completedAttendance := 0
	for i, e := range events {
		dash.TotalRegistrations += e.RegistrationCount
		dash.TotalAttendance += e.AttendanceCount
		if i < recentEvents {
			dash.RecentEvents = append(dash.RecentEvents, e)
		}
		switch {
		case e.Status == model.EventCompleted:
			dash.CompletedEvents++
			completedAttendance += e.AttendanceCount
		case e.Status == model.EventUpcoming && !e.IsPast(now):
			dash.UpcomingEvents = append(dash.UpcomingEvents, e)
		}
	}

	dash.BloodUnits = dash.TotalAttendance
	if dash.CompletedEvents > 0 {
		dash.AverageAttendance = round1(float64(completedAttendance) / float64(dash.CompletedEvents))
	}
	if dash.TotalRegistrations > 0 {
		dash.SuccessRate = round1(float64(dash.TotalAttendance) / float64(dash.TotalRegistrations) * 100)
	}
	return dash
}

func (s *Service) Dashboard(ctx context.Context, organizerID uuid.UUID) (*model.OrganizerDashboard, error) {
	events, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ComputeDashboard(events, s.now()), nil
}

func (s *Service) ListEvents(ctx context.Context, organizerID uuid.UUID) ([]*model.EventWithCounts, error) {
	events, err := s.events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return events, nil
}

// GetEvent loads an event owned by organizerID. Other organizers' events
// are reported as missing.
func (s *Service) GetEvent(ctx context.Context, organizerID, id uuid.UUID) (*model.Event, error) {
	e, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("event", err)
		}
		return nil, apperrors.Internal(err)
	}
	if e.OrganizerID != organizerID {
		return nil, apperrors.NotFound("event", nil)
	}
	return e, nil
}

func parseEventDate(raw string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.BadRequest("event_date must be YYYY-MM-DD", err)
	}
	return d, nil
}

func checkTransition(from, to model.EventStatus) error {
	if !to.IsValid() {
		return apperrors.BadRequest(fmt.Sprintf("invalid status %q", to), nil)
	}
	if from != to && !from.CanTransitionTo(to) {
		return apperrors.Conflict(fmt.Sprintf("cannot change event from %s to %s", from, to), nil)
	}
	return nil
}

func (s *Service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req *model.SaveEventRequest) (*model.Event, error) {
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.EventUpcoming
	}
	if !status.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", status), nil)
	}

	e := &model.Event{
		ID:          uuid.New(),
		OrganizerID: organizerID,
		EventName:   strings.TrimSpace(req.EventName),
		EventDate:   date,
		EventTime:   strings.TrimSpace(req.EventTime),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		TargetGoal:  req.TargetGoal,
		Status:      status,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Info().Str("event_id", e.ID.String()).Str("organizer_id", organizerID.String()).Msg("event created")
	return e, nil
}

func (s *Service) UpdateEvent(ctx context.Context, organizerID, id uuid.UUID, req *model.SaveEventRequest) (*model.Event, error) {
	e, err := s.GetEvent(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := checkTransition(e.Status, req.Status); err != nil {
			return nil, err
		}
		e.Status = req.Status
	}

	e.EventName = strings.TrimSpace(req.EventName)
	e.EventDate = date
	e.EventTime = strings.TrimSpace(req.EventTime)
	e.Location = strings.TrimSpace(req.Location)
	e.Description = strings.TrimSpace(req.Description)
	e.TargetGoal = req.TargetGoal

	if err := s.events.Update(ctx, e); err != nil {
		return nil, apperrors.Internal(err)
	}
	return e, nil
}

func (s *Service) SetStatus(ctx context.Context, organizerID, id uuid.UUID, status model.EventStatus) (*model.Event, error) {
	e, err := s.GetEvent(ctx, organizerID, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(e.Status, status); err != nil {
		return nil, err
	}
	if e.Status == status {
		return e, nil
	}

	if err := s.events.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperrors.Internal(err)
	}
	log.Info().Str("event_id", id.String()).Str("from", string(e.Status)).Str("to", string(status)).Msg("event status changed")
	e.Status = status
	return e, nil
}

func (s *Service) DeleteEvent(ctx context.Context, organizerID, id uuid.UUID) error {
	if _, err := s.GetEvent(ctx, organizerID, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("event", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Registrations(ctx context.Context, organizerID, eventID uuid.UUID) (*model.EventRegistrations, error) {
	e, err := s.GetEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.EventRegistrations{Event: e, Registrations: regs, Stats: ComputeStats(regs)}, nil
}

// UpdateRegistrationStatus moves a registration along its state machine.
// Moving it to Attended records attendance as well.
func (s *Service) UpdateRegistrationStatus(ctx context.Context, organizerID, regID uuid.UUID, status model.RegistrationStatus) (*model.Registration, error) {
	if !status.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", status), nil)
	}
	reg, err := s.registrations.Get(ctx, regID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("registration", err)
		}
		return nil, apperrors.Internal(err)
	}
	e, err := s.GetEvent(ctx, organizerID, reg.EventID)
	if err != nil {
		return nil, err
	}

	if reg.Status == status {
		return reg, nil
	}
	if !reg.Status.CanTransitionTo(status) {
		return nil, apperrors.Conflict(fmt.Sprintf("cannot change registration from %s to %s", reg.Status, status), nil)
	}

	if status == model.RegistrationAttended {
		if _, err := s.markAttended(ctx, e, reg.DonorID); err != nil {
			return nil, err
		}
	} else if err := s.registrations.UpdateStatus(ctx, regID, status); err != nil {
		return nil, apperrors.Internal(err)
	}
	reg.Status = status
	return reg, nil
}

// MarkAttendance checks a donor in. Repeating it is harmless.
func (s *Service) MarkAttendance(ctx context.Context, organizerID, eventID, donorID uuid.UUID) (*model.Attendance, error) {
	e, err := s.GetEvent(ctx, organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.donors.Get(ctx, donorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("donor", err)
		}
		return nil, apperrors.Internal(err)
	}

	att, err := s.markAttended(ctx, e, donorID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("event_id", eventID.String()).Str("donor_id", donorID.String()).Msg("attendance recorded")
	return att, nil
}

// markAttended records a check-in. Cancelled events take no attendance and a
// No-show registration cannot be turned into Attended.
func (s *Service) markAttended(ctx context.Context, e *model.Event, donorID uuid.UUID) (*model.Attendance, error) {
	if e.Status == model.EventCancelled {
		return nil, apperrors.BadRequest(msgAttendanceCancelled, nil)
	}
	att, err := s.registrations.MarkAttended(ctx, e.ID, donorID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.Conflict(msgAttendanceClosed, err)
		}
		return nil, apperrors.Internal(err)
	}
	return att, nil
}

func (s *Service) Attendance(ctx context.Context, organizerID, eventID uuid.UUID) ([]*model.Attendance, error) {
	if _, err := s.GetEvent(ctx, organizerID, eventID); err != nil {
		return nil, err
	}
	list, err := s.registrations.ListAttendance(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}
