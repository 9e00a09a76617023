package model

import (
	"time"

	"github.com/google/uuid"
)

type EventReport struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	EventID             uuid.UUID `json:"event_id" db:"event_id"`
	TotalDonors         int       `json:"total_donors" db:"total_donors"`
	BloodUnitsCollected int       `json:"blood_units_collected" db:"blood_units_collected"`
	OrganizerNotes      string    `json:"organizer_notes,omitempty" db:"organizer_notes"`
	GeneratedDate       time.Time `json:"generated_date" db:"generated_date"`
}

// ReportDocument is everything needed to render a report file.
type ReportDocument struct {
	Report *EventReport `json:"report"`
	Event  *Event       `json:"event"`
}

type GenerateReportRequest struct {
	EventID        uuid.UUID `json:"event_id" form:"event_id" binding:"required"`
	OrganizerNotes string    `json:"organizer_notes" form:"organizer_notes" binding:"max=2000"`
}
