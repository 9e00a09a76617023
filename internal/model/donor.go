package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReasonPendingVerification = "Pending verification"
	ReasonManualDisqualify    = "Manually disqualified by staff"
)

type Donor struct {
	ID                     uuid.UUID  `json:"id" db:"id"`
	UserID                 *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	DonorName              string     `json:"donor_name" db:"donor_name"`
	Email                  string     `json:"email,omitempty" db:"email"`
	BloodType              string     `json:"blood_type" db:"blood_type"`
	Age                    int        `json:"age" db:"age"`
	EligibilityStatus      bool       `json:"eligibility_status" db:"eligibility_status"`
	DisqualificationReason string     `json:"disqualification_reason,omitempty" db:"disqualification_reason"`
	MedicalHistory         string     `json:"medical_history,omitempty" db:"medical_history"`
	LastDonationDate       *time.Time `json:"last_donation_date,omitempty" db:"last_donation_date"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// NewDonorProfile returns a donor that still needs staff verification.
func NewDonorProfile(name string, bloodType BloodType, age int, medicalHistory string) *Donor {
	return &Donor{
		ID:                     uuid.New(),
		DonorName:              name,
		BloodType:              bloodType.String(),
		Age:                    age,
		EligibilityStatus:      false,
		DisqualificationReason: ReasonPendingVerification,
		MedicalHistory:         medicalHistory,
	}
}

type CreateDonorRequest struct {
	DonorName         string `json:"donor_name" form:"donor_name" binding:"required"`
	Email             string `json:"email" form:"email" binding:"required,email"`
	BloodType         string `json:"blood_type" form:"blood_type" binding:"required,bloodtype"`
	Age               int    `json:"age" form:"age" binding:"omitempty,min=16,max=100"`
	EligibilityStatus bool   `json:"eligibility_status" form:"eligibility_status"`
	MedicalHistory    string `json:"medical_history" form:"medical_history"`
}

type UpdateDonorRequest struct {
	DonorName string `json:"donor_name" form:"donor_name" binding:"required"`
	BloodType string `json:"blood_type" form:"blood_type" binding:"required,bloodtype"`
	Age       int    `json:"age" form:"age" binding:"required,min=16,max=100"`
}

type ToggleEligibilityRequest struct {
	DonorID   uuid.UUID `json:"donor_id" form:"donor_id" binding:"required"`
	NewStatus *bool     `json:"new_status" form:"new_status" binding:"required"`
	Reason    string    `json:"reason" form:"reason"`
}

type MedicalHistoryRequest struct {
	MedicalHistory string `json:"medical_history" form:"medical_history"`
}

type EligibilityResult struct {
	Eligible         bool       `json:"eligible"`
	Message          string     `json:"message"`
	Reason           string     `json:"reason,omitempty"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
}

// DonorMatch is the per-donor detail reported by the urgent request matcher.
type DonorMatch struct {
	DonorID   uuid.UUID `json:"donor_id"`
	DonorName string    `json:"donor_name"`
	BloodType string    `json:"blood_type"`
	Notified  bool      `json:"notified"`
}
