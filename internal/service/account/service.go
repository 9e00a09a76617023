package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

const (
	DefaultHospitalName = "Unknown Hospital"

	MsgEmailTaken = "Email already registered"
)

// Profile carries the role specific fields of a new account.
type Profile struct {
	BloodType      string
	Age            int
	MedicalHistory string
	HospitalName   string
	OrganizerName  string
}

type NewAccount struct {
	FullName string
	Email    string
	Password string
	Role     model.Role
	Status   model.UserStatus
	Profile  Profile
}

// Service creates users together with their role profile.
type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	cipher *security.FieldCipher
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, cipher *security.FieldCipher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		cipher: cipher,
	}
}

func (s *Service) Create(ctx context.Context, in NewAccount) (*model.Account, error) {
	account, err := s.build(in)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, account.User.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if exists {
		return nil, apperrors.Conflict(MsgEmailTaken, nil)
	}

	if err := s.users.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(MsgEmailTaken, err)
		}
		return nil, apperrors.Internal(err)
	}

	log.Info().
		Str("user_id", account.User.ID.String()).
		Str("role", string(account.User.Role)).
		Msg("account created")

	return account, nil
}

func (s *Service) build(in NewAccount) (*model.Account, error) {
	name := strings.TrimSpace(in.FullName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" {
		return nil, apperrors.BadRequest("full name and email are required", nil)
	}
	if !in.Role.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid role %q", in.Role), nil)
	}
	status := in.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if !status.IsValid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", in.Status), nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) || errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperrors.BadRequest(err.Error(), err)
		}
		return nil, apperrors.Internal(err)
	}

	account := &model.Account{
		User: &model.User{
			FullName:     name,
			Email:        email,
			PasswordHash: hash,
			Role:         in.Role,
			Status:       status,
		},
	}

	switch in.Role {
	case model.RoleDonor:
		bt, ok := model.NormalizeBloodType(in.Profile.BloodType)
		if !ok {
			return nil, apperrors.BadRequest("a valid blood type is required for donors", nil)
		}
		history, err := s.cipher.EncryptString(strings.TrimSpace(in.Profile.MedicalHistory))
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		account.Donor = model.NewDonorProfile(name, bt, in.Profile.Age, history)
	case model.RoleStaff:
		hospital := strings.TrimSpace(in.Profile.HospitalName)
		if hospital == "" {
			hospital = DefaultHospitalName
		}
		account.Staff = &model.Staff{StaffName: name, HospitalName: hospital}
	case model.RoleOrganizer:
		orgName := strings.TrimSpace(in.Profile.OrganizerName)
		if orgName == "" {
			orgName = name
		}
		account.Organizer = &model.Organizer{OrganizerName: orgName}
	}

	return account, nil
}
