package report

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

// EventLoader returns an event only when organizerID owns it.
type EventLoader interface {
	GetEvent(ctx context.Context, organizerID, id uuid.UUID) (*model.Event, error)
}

type Service struct {
	reports       repository.ReportRepository
	registrations repository.RegistrationRepository
	events        EventLoader
}

func NewService(reports repository.ReportRepository, registrations repository.RegistrationRepository, events EventLoader) *Service {
	return &Service{reports: reports, registrations: registrations, events: events}
}

// Generate snapshots an event's registration and attendance counts.
func (s *Service) Generate(ctx context.Context, organizerID uuid.UUID, req *model.GenerateReportRequest) (*model.ReportDocument, error) {
	e, err := s.events.GetEvent(ctx, organizerID, req.EventID)
	if err != nil {
		return nil, err
	}

	regs, err := s.registrations.ListByEvent(ctx, e.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	attended, err := s.registrations.ListAttendance(ctx, e.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	rep := &model.EventReport{
		ID:                  uuid.New(),
		EventID:             e.ID,
		TotalDonors:         len(regs),
		BloodUnitsCollected: len(attended),
		OrganizerNotes:      strings.TrimSpace(req.OrganizerNotes),
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Info().
		Str("report_id", rep.ID.String()).
		Str("event_id", e.ID.String()).
		Int("total_donors", rep.TotalDonors).
		Int("blood_units", rep.BloodUnitsCollected).
		Msg("event report generated")

	return &model.ReportDocument{Report: rep, Event: e}, nil
}

func (s *Service) List(ctx context.Context, organizerID uuid.UUID) ([]*model.EventReport, error) {
	reports, err := s.reports.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return reports, nil
}

// Get returns the report with its event, for viewing or download.
func (s *Service) Get(ctx context.Context, organizerID, id uuid.UUID) (*model.ReportDocument, error) {
	rep, err := s.reports.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("report", err)
		}
		return nil, apperrors.Internal(err)
	}
	e, err := s.events.GetEvent(ctx, organizerID, rep.EventID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("report", err)
		}
		return nil, err
	}
	return &model.ReportDocument{Report: rep, Event: e}, nil
}

func (s *Service) Delete(ctx context.Context, organizerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, organizerID, id); err != nil {
		return err
	}
	if err := s.reports.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("report", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
