package model

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestApproved  RequestStatus = "Approved"
	RequestFulfilled RequestStatus = "Fulfilled"
	RequestCancelled RequestStatus = "Cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestApproved, RequestFulfilled, RequestCancelled},
	RequestApproved: {RequestFulfilled, RequestCancelled},
}

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestFulfilled, RequestCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestFulfilled || s == RequestCancelled
}

func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "High"
	UrgencyMedium UrgencyLevel = "Medium"
	UrgencyLow    UrgencyLevel = "Low"
)

type RequestAction string

const (
	RequestActionCreate RequestAction = "CREATE"
	RequestActionStatus RequestAction = "STATUS"
	RequestActionDelete RequestAction = "DELETE"
)

type UrgentRequest struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	BloodType    string        `json:"blood_type" db:"blood_type"`
	UnitsNeeded  int           `json:"units_needed" db:"units_needed"`
	UrgencyLevel UrgencyLevel  `json:"urgency_level" db:"urgency_level"`
	Status       RequestStatus `json:"status" db:"status"`
	HospitalName string        `json:"hospital_name" db:"hospital_name"`
	PatientInfo  string        `json:"patient_info,omitempty" db:"patient_info"`
	Notes        string        `json:"notes,omitempty" db:"notes"`
	RequestedBy  *uuid.UUID    `json:"requested_by,omitempty" db:"requested_by"`
	HandledBy    *uuid.UUID    `json:"handled_by,omitempty" db:"handled_by"`
	RequestedAt  time.Time     `json:"requested_at" db:"requested_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// UrgentRequestDetail is an urgent request enriched for display.
type UrgentRequestDetail struct {
	*UrgentRequest
	StaffName string `json:"staff_name,omitempty"`
}

type RequestLog struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	RequestID uuid.UUID     `json:"request_id" db:"request_id"`
	OldStatus string        `json:"old_status" db:"old_status"`
	NewStatus string        `json:"new_status" db:"new_status"`
	Action    RequestAction `json:"action" db:"action"`
	ChangedBy *uuid.UUID    `json:"changed_by,omitempty" db:"changed_by"`
	ChangedAt time.Time     `json:"changed_at" db:"changed_at"`
}

type CreateRequestRequest struct {
	BloodType    string       `json:"blood_type" form:"blood_type" binding:"required,bloodtype"`
	UnitsNeeded  int          `json:"units_needed" form:"units_needed" binding:"required,min=1"`
	UrgencyLevel UrgencyLevel `json:"urgency_level" form:"urgency_level" binding:"required,oneof=High Medium Low"`
	PatientInfo  string       `json:"patient_info" form:"patient_info" binding:"max=500"`
	Notes        string       `json:"notes" form:"notes" binding:"max=1000"`
	HospitalName string       `json:"hospital_name" form:"hospital_name"`
}

type UpdateRequestStatusRequest struct {
	Status RequestStatus `json:"status" form:"status" binding:"required,oneof=Pending Approved Fulfilled Cancelled"`
}

// RequestFilter narrows urgent request listings.
type RequestFilter struct {
	Status    RequestStatus
	BloodType string
}

// MatchResult is the outcome of notifying donors about an urgent request.
type MatchResult struct {
	RequestID      uuid.UUID    `json:"request_id"`
	BloodType      string       `json:"blood_type"`
	Matched        int          `json:"matched"`
	DonorsNotified int          `json:"donors_notified"`
	DonorDetails   []DonorMatch `json:"donor_details"`
	Message        string       `json:"message"`
}

type CreateRequestResult struct {
	Request *UrgentRequest `json:"request"`
	Match   *MatchResult   `json:"match"`
}
