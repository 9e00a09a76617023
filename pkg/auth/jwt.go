package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	signingMethod = jwt.SigningMethodHS256
)

type JWTService interface {
	GenerateAccessToken(principal *model.Principal) (string, *Claims, error)
	ValidateToken(token string) (*Claims, error)
}

// Claims is the typed payload carried by BloodLink access tokens.
type Claims struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the request identity.
func (c *Claims) Principal() *model.Principal {
	return &model.Principal{
		UserID:    c.UserID,
		Email:     c.Email,
		Role:      c.Role,
		ProfileID: c.ProfileID,
		TokenID:   c.ID,
	}
}

type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewManager(secret, issuer string, expiry time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry is the lifetime given to new tokens.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

func (m *Manager) GenerateAccessToken(principal *model.Principal) (string, *Claims, error) {
	if len(m.secret) == 0 {
		return "", nil, fmt.Errorf("jwt secret is required")
	}
	if !principal.Role.IsValid() {
		return "", nil, fmt.Errorf("invalid role %q", principal.Role)
	}

	now := m.now()
	claims := &Claims{
		UserID:    principal.UserID,
		Email:     principal.Email,
		Role:      principal.Role,
		ProfileID: principal.ProfileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   principal.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing jwt: %w", err)
	}
	return signed, claims, nil
}

func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != signingMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
