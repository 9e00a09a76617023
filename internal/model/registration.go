package model

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "Pending"
	RegistrationConfirmed RegistrationStatus = "Confirmed"
	RegistrationAttended  RegistrationStatus = "Attended"
	RegistrationNoShow    RegistrationStatus = "No-show"
)

var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPending:   {RegistrationConfirmed, RegistrationAttended, RegistrationNoShow},
	RegistrationConfirmed: {RegistrationAttended, RegistrationNoShow},
}

func (s RegistrationStatus) IsValid() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationAttended, RegistrationNoShow:
		return true
	}
	return false
}

// AcceptsAttendance reports whether a check-in may land on a registration in
// state s. Attended is included so repeated check-ins stay idempotent.
func (s RegistrationStatus) AcceptsAttendance() bool {
	return s == RegistrationPending || s == RegistrationConfirmed || s == RegistrationAttended
}

func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Registration struct {
	ID           uuid.UUID          `json:"id" db:"id"`
	DonorID      uuid.UUID          `json:"donor_id" db:"donor_id"`
	EventID      uuid.UUID          `json:"event_id" db:"event_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	RegisteredAt time.Time          `json:"registered_at" db:"registered_at"`
}

// RegistrationDetail joins a registration with its donor and event.
type RegistrationDetail struct {
	Registration
	DonorName     string    `json:"donor_name" db:"donor_name"`
	BloodType     string    `json:"blood_type" db:"blood_type"`
	EventName     string    `json:"event_name" db:"event_name"`
	EventDate     time.Time `json:"event_date" db:"event_date"`
	EventTime     string    `json:"event_time,omitempty" db:"event_time"`
	EventLocation string    `json:"event_location" db:"event_location"`
	EventStatus   string    `json:"event_status" db:"event_status"`
}

type RegistrationStats struct {
	Total          int            `json:"total"`
	Confirmed      int            `json:"confirmed"`
	Attended       int            `json:"attended"`
	AttendanceRate float64        `json:"attendance_rate"`
	BloodTypes     map[string]int `json:"blood_types"`
}

type Attendance struct {
	ID          uuid.UUID `json:"id" db:"id"`
	EventID     uuid.UUID `json:"event_id" db:"event_id"`
	DonorID     uuid.UUID `json:"donor_id" db:"donor_id"`
	DonorName   string    `json:"donor_name,omitempty" db:"donor_name"`
	BloodType   string    `json:"blood_type,omitempty" db:"blood_type"`
	CheckInTime time.Time `json:"check_in_time" db:"check_in_time"`
}

type RegisterForEventRequest struct {
	EventID uuid.UUID `json:"event_id" form:"event_id" binding:"required"`
}

type UpdateRegistrationStatusRequest struct {
	Status RegistrationStatus `json:"status" form:"status" binding:"required,oneof=Pending Confirmed Attended No-show"`
}

type MarkAttendanceRequest struct {
	DonorID uuid.UUID `json:"donor_id" form:"donor_id" binding:"required"`
}

// EventRegistrations is the organizer's registration list for one event.
type EventRegistrations struct {
	Event         *Event                `json:"event"`
	Registrations []*RegistrationDetail `json:"registrations"`
	Stats         *RegistrationStats    `json:"stats"`
}
