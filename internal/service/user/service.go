package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/service/account"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

// TempPassword is assigned to accounts created by an administrator.
const TempPassword = "Temp123"

var errSelf = apperrors.BadRequest("you cannot change your own account here", nil)

// Service is the administrator's view of user accounts.
type Service struct {
	repo     repository.UserRepository
	accounts *account.Service
	emailSvc email.Service
}

func NewService(repo repository.UserRepository, accounts *account.Service, emailSvc email.Service) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		emailSvc: emailSvc,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.Account, error) {
	acct, err := s.accounts.Create(ctx, account.NewAccount{
		FullName: req.FullName,
		Email:    req.Email,
		Password: TempPassword,
		Role:     req.Role,
		Status:   req.Status,
		Profile: account.Profile{
			BloodType:    req.BloodType,
			Age:          req.Age,
			HospitalName: req.HospitalName,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.emailSvc.SendWelcome(ctx, acct.User.Email, acct.User.FullName, TempPassword); err != nil {
		log.Warn().Err(err).Str("user_id", acct.User.ID.String()).Msg("failed to send welcome email")
	}
	return acct, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *model.UpdateUserRequest) (*model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != u.Email {
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if taken {
			return nil, apperrors.Conflict(account.MsgEmailTaken, nil)
		}
	}

	u.FullName = strings.TrimSpace(req.FullName)
	u.Email = email
	if req.Status != "" {
		u.Status = req.Status
	}

	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.Conflict(account.MsgEmailTaken, err)
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

// ToggleStatus flips a user between active and suspended.
func (s *Service) ToggleStatus(ctx context.Context, id, actorID uuid.UUID) (*model.User, error) {
	if id == actorID {
		return nil, errSelf
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	next := u.Status.Toggle()
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	u.Status = next

	log.Info().Str("user_id", id.String()).Str("status", string(next)).Msg("user status toggled")
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return errSelf
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	log.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
