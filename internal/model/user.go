package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleDonor     Role = "donor"
	RoleStaff     Role = "staff"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleDonor, RoleStaff, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusSuspended
}

// Toggle flips between active and suspended.
func (s UserStatus) Toggle() UserStatus {
	if s == UserStatusActive {
		return UserStatusSuspended
	}
	return UserStatusActive
}

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	FullName     string     `json:"full_name" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type Staff struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	StaffName    string    `json:"staff_name" db:"staff_name"`
	HospitalName string    `json:"hospital_name" db:"hospital_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Organizer struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	OrganizerName string    `json:"organizer_name" db:"organizer_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Account is a user together with its role profile. Exactly one of the
// profile pointers is set for donor, staff and organizer accounts; admins
// have none.
type Account struct {
	User      *User      `json:"user"`
	Donor     *Donor     `json:"donor,omitempty"`
	Staff     *Staff     `json:"staff,omitempty"`
	Organizer *Organizer `json:"organizer,omitempty"`
}

// ProfileID returns the id of the role profile, if any.
func (a *Account) ProfileID() *uuid.UUID {
	switch {
	case a.Donor != nil:
		return &a.Donor.ID
	case a.Staff != nil:
		return &a.Staff.ID
	case a.Organizer != nil:
		return &a.Organizer.ID
	}
	return nil
}

type CreateUserRequest struct {
	FullName string     `json:"full_name" form:"full_name" binding:"required"`
	Email    string     `json:"email" form:"email" binding:"required,email"`
	Role     Role       `json:"role" form:"role" binding:"required,oneof=donor staff organizer admin"`
	Status   UserStatus `json:"status" form:"status" binding:"omitempty,oneof=active suspended"`

	// Role profile fields
	BloodType    string `json:"blood_type" form:"blood_type" binding:"omitempty,bloodtype"`
	Age          int    `json:"age" form:"age" binding:"omitempty,min=16,max=100"`
	HospitalName string `json:"hospital_name" form:"hospital_name"`
}

type UpdateUserRequest struct {
	FullName string     `json:"full_name" form:"full_name" binding:"required"`
	Email    string     `json:"email" form:"email" binding:"required,email"`
	Status   UserStatus `json:"status" form:"status" binding:"omitempty,oneof=active suspended"`
}
