package model

import (
	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	FullName        string `json:"full_name" form:"full_name" binding:"required,max=100"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
	Role            Role   `json:"role" form:"role" binding:"required,oneof=donor staff organizer admin"`

	BloodType      string `json:"blood_type" form:"blood_type" binding:"omitempty,bloodtype"`
	Age            int    `json:"age" form:"age" binding:"omitempty,min=16,max=100"`
	MedicalHistory string `json:"medical_history" form:"medical_history"`
	HospitalName   string `json:"hospital_name" form:"hospital_name"`
	OrganizerName  string `json:"organizer_name" form:"organizer_name"`
}

type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int64      `json:"expires_in"`
	User        *User      `json:"user"`
	ProfileID   *uuid.UUID `json:"profile_id,omitempty"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	ProfileID *uuid.UUID `json:"profile_id,omitempty"`
	TokenID   string     `json:"-"`
}

// HasRole reports whether the principal holds one of roles.
func (p *Principal) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
