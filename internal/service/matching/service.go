// Package matching finds eligible donors for an urgent request and alerts
// them.
package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// Notifier persists one notification.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, notificationType string, relatedID *uuid.UUID) (*model.Notification, error)
}

type Service struct {
	donors   repository.DonorRepository
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewService(donors repository.DonorRepository, notifier Notifier, m *metrics.Metrics) *Service {
	return &Service{donors: donors, notifier: notifier, metrics: m}
}

// Title is the notification title for a request.
func Title(req *model.UrgentRequest) string {
	return fmt.Sprintf("Urgent Blood Request (%s)", req.BloodType)
}

// Message is the notification body for a request raised by hospital.
func Message(req *model.UrgentRequest, hospital string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URGENT: %s needs %d units of %s blood.", hospital, req.UnitsNeeded, req.BloodType)

	switch req.UrgencyLevel {
	case model.UrgencyHigh:
		b.WriteString(" This is a CRITICAL emergency!")
	case model.UrgencyMedium:
		b.WriteString(" Required for scheduled procedure.")
	}
	if info := strings.TrimSpace(req.PatientInfo); info != "" {
		b.WriteString(" For: " + info)
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		b.WriteString(" Notes: " + notes)
	}
	return b.String()
}

// FindDonors returns the eligible donors for bloodType. Stored types are
// compared after normalisation, so " o- " and "O negative" both match O-.
func (s *Service) FindDonors(ctx context.Context, bloodType string) ([]*model.Donor, error) {
	all, err := s.donors.ListEligible(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*model.Donor, 0, len(all))
	for _, d := range all {
		if model.SameBloodType(d.BloodType, bloodType) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// NotifyMatchingDonors alerts every eligible donor whose blood type matches
// the request. Each donor is attempted on its own so one failed insert does
// not stop the rest.
func (s *Service) NotifyMatchingDonors(ctx context.Context, req *model.UrgentRequest, hospital string) (*model.MatchResult, error) {
	donors, err := s.FindDonors(ctx, req.BloodType)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	result := &model.MatchResult{
		RequestID:    req.ID,
		BloodType:    req.BloodType,
		Matched:      len(donors),
		DonorDetails: make([]model.DonorMatch, 0, len(donors)),
	}
	if len(donors) == 0 {
		result.Message = fmt.Sprintf("No eligible donors found with %s blood type", req.BloodType)
		return result, nil
	}

	title := Title(req)
	message := Message(req, hospital)
	relatedID := req.ID

	for _, d := range donors {
		match := model.DonorMatch{DonorID: d.ID, DonorName: d.DonorName, BloodType: d.BloodType}
		if d.UserID == nil {
			result.DonorDetails = append(result.DonorDetails, match)
			continue
		}

		if _, err := s.notifier.Notify(ctx, *d.UserID, title, message, model.NotificationTypeAlert, &relatedID); err != nil {
			log.Error().Err(err).
				Str("donor_id", d.ID.String()).
				Str("request_id", req.ID.String()).
				Msg("failed to notify donor")
		} else {
			match.Notified = true
			result.DonorsNotified++
		}
		result.DonorDetails = append(result.DonorDetails, match)
	}

	s.metrics.Notified(result.DonorsNotified)
	result.Message = fmt.Sprintf("Notified %d of %d eligible %s donors", result.DonorsNotified, result.Matched, req.BloodType)

	log.Info().
		Str("request_id", req.ID.String()).
		Str("blood_type", req.BloodType).
		Int("matched", result.Matched).
		Int("notified", result.DonorsNotified).
		Msg("urgent request matched")

	return result, nil
}
