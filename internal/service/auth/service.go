package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/service/account"
	"github.com/bloodlink/bloodlink-api/pkg/auth"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/security"
)

const (
	tokenType    = "Bearer"
	msgSuspended = "Your account has been suspended"
)

var (
	errInvalidCredentials = &apperrors.AppError{Code: apperrors.ErrUnauthorized, Message: "Invalid email or password"}
	errRevokedToken       = errors.New("token has been revoked")
	errUnknownUser        = errors.New("token subject no longer exists")
)

// TokenIssuer is the part of the JWT manager the service needs.
type TokenIssuer interface {
	GenerateAccessToken(principal *model.Principal) (string, *auth.Claims, error)
	ValidateToken(token string) (*auth.Claims, error)
	Expiry() time.Duration
}

type Service struct {
	users    repository.UserRepository
	accounts *account.Service
	hasher   security.PasswordHasher
	tokens   TokenIssuer
	// revoked holds token ids until the token would have expired anyway.
	revoked *cache.Cache
}

func NewService(users repository.UserRepository, accounts *account.Service, hasher security.PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		users:    users,
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		revoked:  cache.New(tokens.Expiry(), 10*time.Minute),
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.BadRequest("Passwords do not match", nil)
	}

	return s.accounts.Create(ctx, account.NewAccount{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   model.UserStatusActive,
		Profile: account.Profile{
			BloodType:      req.BloodType,
			Age:            req.Age,
			MedicalHistory: req.MedicalHistory,
			HospitalName:   req.HospitalName,
			OrganizerName:  req.OrganizerName,
		},
	})
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Warn().Str("user_id", user.ID.String()).Msg("login failed: wrong password")
		return nil, errInvalidCredentials
	}

	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden(msgSuspended)
	}

	acct, err := s.users.GetAccount(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	principal := &model.Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ProfileID: acct.ProfileID(),
	}
	token, claims, err := s.tokens.GenerateAccessToken(principal)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	log.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("user logged in")

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresIn:   int64(claims.ExpiresAt.Sub(claims.IssuedAt.Time).Seconds()),
		User:        user,
		ProfileID:   principal.ProfileID,
	}, nil
}

// Authenticate validates a bearer token and returns its principal. The
// account is looked up again so suspending or deleting a user cuts off tokens
// that were issued before.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	if _, revoked := s.revoked.Get(claims.ID); revoked {
		return nil, apperrors.Unauthorized(errRevokedToken)
	}

	principal := claims.Principal()
	user, err := s.users.Get(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(errUnknownUser)
		}
		return nil, apperrors.Internal(err)
	}
	if user.Status != model.UserStatusActive {
		return nil, apperrors.Forbidden(msgSuspended)
	}
	return principal, nil
}

// Logout revokes the principal's token.
func (s *Service) Logout(principal *model.Principal) {
	if principal == nil || principal.TokenID == "" {
		return
	}
	s.revoked.Set(principal.TokenID, struct{}{}, cache.DefaultExpiration)
	log.Info().Str("user_id", principal.UserID.String()).Msg("user logged out")
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*model.Account, error) {
	acct, err := s.users.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Internal(err)
	}
	return acct, nil
}
