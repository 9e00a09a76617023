package donor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/service/account"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

const (
	// TempPassword is given to donors that staff register in person.
	TempPassword = "TempPassword123"

	MsgEligible           = "You are eligible to donate!"
	MsgNotEligible        = "You are not eligible to donate."
	MsgAlreadyRegistered  = "Already registered for this event"
	msgEventCancelled     = "This event has been cancelled"
	msgEventPast          = "This event has already taken place"
	msgDonorNotEligible   = "You are not currently eligible to donate"
	msgDonorProfileAbsent = "donor profile"
)

type Repositories struct {
	Donors        repository.DonorRepository
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Notifications repository.NotificationRepository
}

type Service struct {
	repos    Repositories
	accounts *account.Service
	mailer   email.Service
	cipher   *security.FieldCipher
	now      func() time.Time
}

func NewService(repos Repositories, accounts *account.Service, mailer email.Service, cipher *security.FieldCipher) *Service {
	return &Service{
		repos:    repos,
		accounts: accounts,
		mailer:   mailer,
		cipher:   cipher,
		now:      time.Now,
	}
}

// IsEligible reports whether the donor may be matched or register.
func IsEligible(d *model.Donor) bool {
	return d != nil && d.EligibilityStatus
}

// Availability computes the registration flags a donor sees for an event.
func Availability(d *model.Donor, e *model.Event, registered bool, now time.Time) *model.EventAvailability {
	past := e.IsPast(now)
	cancelled := e.Status == model.EventCancelled
	return &model.EventAvailability{
		Event:             e,
		IsPast:            past,
		IsCancelled:       cancelled,
		AlreadyRegistered: registered,
		CanRegister:       !past && !cancelled && !registered && IsEligible(d),
	}
}

func notFoundOrInternal(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}

// ForUser loads the donor profile of a donor account.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) (*model.Donor, error) {
	d, err := s.repos.Donors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(msgDonorProfileAbsent, err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Donor, error) {
	d, err := s.repos.Donors.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal("donor", err)
	}
	if err := s.decryptHistory(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Donor, error) {
	donors, err := s.repos.Donors.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, d := range donors {
		d.MedicalHistory = ""
	}
	return donors, nil
}

// Create registers a donor on behalf of staff. The donor gets an account
// with a temporary password and a welcome email.
func (s *Service) Create(ctx context.Context, req *model.CreateDonorRequest) (*model.Donor, error) {
	acct, err := s.accounts.Create(ctx, account.NewAccount{
		FullName: req.DonorName,
		Email:    req.Email,
		Password: TempPassword,
		Role:     model.RoleDonor,
		Status:   model.UserStatusActive,
		Profile: account.Profile{
			BloodType:      req.BloodType,
			Age:            req.Age,
			MedicalHistory: req.MedicalHistory,
		},
	})
	if err != nil {
		return nil, err
	}
	d := acct.Donor

	if req.EligibilityStatus {
		if err := s.repos.Donors.SetEligibility(ctx, d.ID, true, ""); err != nil {
			return nil, apperrors.Internal(err)
		}
		d.EligibilityStatus = true
		d.DisqualificationReason = ""
	}

	if err := s.mailer.SendWelcome(ctx, acct.User.Email, acct.User.FullName, TempPassword); err != nil {
		log.Warn().Err(err).Str("donor_id", d.ID.String()).Msg("failed to send welcome email")
	}

	d.MedicalHistory = ""
	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDonorRequest) (*model.Donor, error) {
	bt, ok := model.NormalizeBloodType(req.BloodType)
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid blood type %q", req.BloodType), nil)
	}

	d, err := s.repos.Donors.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal("donor", err)
	}
	d.DonorName = req.DonorName
	d.BloodType = bt.String()
	d.Age = req.Age

	if err := s.repos.Donors.Update(ctx, d); err != nil {
		return nil, notFoundOrInternal("donor", err)
	}
	d.MedicalHistory = ""
	return d, nil
}

// SetEligibility changes a donor's eligibility. Disqualifying without a
// reason records the default manual reason; qualifying clears it.
func (s *Service) SetEligibility(ctx context.Context, id uuid.UUID, eligible bool, reason string) (*model.Donor, error) {
	if eligible {
		reason = ""
	} else if reason == "" {
		reason = model.ReasonManualDisqualify
	}

	if err := s.repos.Donors.SetEligibility(ctx, id, eligible, reason); err != nil {
		return nil, notFoundOrInternal("donor", err)
	}

	log.Info().
		Str("donor_id", id.String()).
		Bool("eligible", eligible).
		Str("reason", reason).
		Msg("donor eligibility changed")

	return s.Get(ctx, id)
}

// CheckEligibility reports the donor's own eligibility.
func (s *Service) CheckEligibility(ctx context.Context, userID uuid.UUID) (*model.EligibilityResult, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := &model.EligibilityResult{
		Eligible:         IsEligible(d),
		Message:          MsgNotEligible,
		Reason:           d.DisqualificationReason,
		LastDonationDate: d.LastDonationDate,
	}
	if res.Eligible {
		res.Message = MsgEligible
	}
	return res, nil
}

// Appointments lists every event with the donor's registration flags.
func (s *Service) Appointments(ctx context.Context, userID uuid.UUID) ([]*model.EventAvailability, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.repos.Events.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	regs, err := s.repos.Registrations.ListByDonor(ctx, d.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	registered := make(map[uuid.UUID]bool, len(regs))
	for _, r := range regs {
		registered[r.EventID] = true
	}

	now := s.now()
	out := make([]*model.EventAvailability, 0, len(events))
	for _, e := range events {
		out = append(out, Availability(d, e, registered[e.ID], now))
	}
	return out, nil
}

// Register signs the donor up for an event with a Pending registration.
func (s *Service) Register(ctx context.Context, userID, eventID uuid.UUID) (*model.Registration, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	e, err := s.repos.Events.Get(ctx, eventID)
	if err != nil {
		return nil, notFoundOrInternal("event", err)
	}

	exists, err := s.repos.Registrations.Exists(ctx, d.ID, e.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	avail := Availability(d, e, exists, s.now())
	switch {
	case avail.AlreadyRegistered:
		return nil, apperrors.Conflict(MsgAlreadyRegistered, nil)
	case avail.IsCancelled:
		return nil, apperrors.BadRequest(msgEventCancelled, nil)
	case avail.IsPast:
		return nil, apperrors.BadRequest(msgEventPast, nil)
	case !IsEligible(d):
		return nil, apperrors.Forbidden(msgDonorNotEligible)
	}

	reg := &model.Registration{
		ID:      uuid.New(),
		DonorID: d.ID,
		EventID: e.ID,
		Status:  model.RegistrationPending,
	}
	if err := s.repos.Registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(MsgAlreadyRegistered, err)
		}
		return nil, apperrors.Internal(err)
	}

	log.Info().
		Str("donor_id", d.ID.String()).
		Str("event_id", e.ID.String()).
		Msg("donor registered for event")

	return reg, nil
}

// RegisteredEvents returns the donor's registrations with event details.
func (s *Service) RegisteredEvents(ctx context.Context, userID uuid.UUID) ([]*model.RegistrationDetail, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	regs, err := s.repos.Registrations.ListByDonor(ctx, d.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return regs, nil
}

func (s *Service) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DonorDashboard, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	regs, err := s.repos.Registrations.ListByDonor(ctx, d.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	unread, err := s.repos.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	d.MedicalHistory = ""
	return &model.DonorDashboard{
		Donor:            d,
		Registrations:    regs,
		LastDonationDate: d.LastDonationDate,
		UnreadCount:      unread,
	}, nil
}

func (s *Service) MedicalHistory(ctx context.Context, userID uuid.UUID) (string, error) {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := s.decryptHistory(d); err != nil {
		return "", err
	}
	return d.MedicalHistory, nil
}

func (s *Service) SaveMedicalHistory(ctx context.Context, userID uuid.UUID, history string) error {
	d, err := s.ForUser(ctx, userID)
	if err != nil {
		return err
	}
	sealed, err := s.cipher.EncryptString(history)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.repos.Donors.UpdateMedicalHistory(ctx, d.ID, sealed); err != nil {
		return notFoundOrInternal("donor", err)
	}
	return nil
}

func (s *Service) decryptHistory(d *model.Donor) error {
	plain, err := s.cipher.DecryptString(d.MedicalHistory)
	if err != nil {
		log.Error().Err(err).Str("donor_id", d.ID.String()).Msg("failed to decrypt medical history")
		return apperrors.Internal(err)
	}
	d.MedicalHistory = plain
	return nil
}
