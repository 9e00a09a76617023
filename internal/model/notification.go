package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTitleMax   = 100
	NotificationMessageMax = 500

	NotificationTypeAlert = "alert"
	NotificationTypeInfo  = "info"
)

type Notification struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	UserID           uuid.UUID  `json:"user_id" db:"user_id"`
	Title            string     `json:"title" db:"title"`
	Message          string     `json:"message" db:"message"`
	IsRead           bool       `json:"is_read" db:"is_read"`
	NotificationType string     `json:"notification_type" db:"notification_type"`
	RelatedID        *uuid.UUID `json:"related_id,omitempty" db:"related_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// NotificationEvent is published on the broker so the worker can deliver a
// stored notification through other channels.
type NotificationEvent struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Email          string    `json:"email"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// LowStockEvent is published when a blood type falls below the threshold.
type LowStockEvent struct {
	BloodType string    `json:"blood_type"`
	Quantity  int       `json:"quantity"`
	Threshold int       `json:"threshold"`
	At        time.Time `json:"at"`
}

type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}
