package model

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "Upcoming"
	EventOngoing   EventStatus = "Ongoing"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventUpcoming: {EventOngoing, EventCompleted, EventCancelled},
	EventOngoing:  {EventCompleted, EventCancelled},
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const DateLayout = "2006-01-02"

type Event struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	OrganizerID   uuid.UUID   `json:"organizer_id" db:"organizer_id"`
	OrganizerName string      `json:"organizer_name,omitempty" db:"organizer_name"`
	EventName     string      `json:"event_name" db:"event_name"`
	EventDate     time.Time   `json:"event_date" db:"event_date"`
	EventTime     string      `json:"event_time,omitempty" db:"event_time"`
	Location      string      `json:"location" db:"location"`
	Description   string      `json:"description,omitempty" db:"description"`
	TargetGoal    int         `json:"target_goal" db:"target_goal"`
	Status        EventStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// IsPast reports whether the event date lies strictly before today's date.
func (e *Event) IsPast(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := e.EventDate.Date()
	eventDay := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return eventDay.Before(today)
}

// EventWithCounts carries registration counters alongside an event.
type EventWithCounts struct {
	Event
	RegistrationCount int `json:"registration_count" db:"registration_count"`
	AttendanceCount   int `json:"attendance_count" db:"attendance_count"`
}

// EventAvailability is how a donor sees an event in the appointment list.
type EventAvailability struct {
	Event             *Event `json:"event"`
	IsPast            bool   `json:"is_past"`
	IsCancelled       bool   `json:"is_cancelled"`
	AlreadyRegistered bool   `json:"already_registered"`
	CanRegister       bool   `json:"can_register"`
}

type SaveEventRequest struct {
	EventName   string      `json:"event_name" form:"event_name" binding:"required,max=200"`
	EventDate   string      `json:"event_date" form:"event_date" binding:"required,datetime=2006-01-02"`
	EventTime   string      `json:"event_time" form:"event_time"`
	Location    string      `json:"location" form:"location" binding:"required"`
	Description string      `json:"description" form:"description"`
	TargetGoal  int         `json:"target_goal" form:"target_goal" binding:"min=0"`
	Status      EventStatus `json:"status" form:"status" binding:"omitempty,oneof=Upcoming Ongoing Completed Cancelled"`
}

type UpdateEventStatusRequest struct {
	Status EventStatus `json:"status" form:"status" binding:"required,oneof=Upcoming Ongoing Completed Cancelled"`
}
