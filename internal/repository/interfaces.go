package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrConflict  = errors.New("concurrent modification")
)

// All repository interfaces in one file
type (
	// UserRepository handles users and the role profiles created with them
	UserRepository interface {
		CreateAccount(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetAccount(ctx context.Context, userID uuid.UUID) (*model.Account, error)
		EmailExists(ctx context.Context, email string) (bool, error)
		List(ctx context.Context) ([]*model.User, error)
		Update(ctx context.Context, user *model.User) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DonorRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Donor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Donor, error)
		List(ctx context.Context) ([]*model.Donor, error)
		Count(ctx context.Context) (int, error)
		Update(ctx context.Context, donor *model.Donor) error
		SetEligibility(ctx context.Context, id uuid.UUID, eligible bool, reason string) error
		UpdateMedicalHistory(ctx context.Context, id uuid.UUID, history string) error
		ListEligible(ctx context.Context) ([]*model.Donor, error)
	}

	StaffRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Staff, error)
	}

	OrganizerRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Organizer, error)
	}

	// InventoryRepository owns the stock ledger. Apply runs the read, the
	// update and the log insert in one transaction.
	InventoryRepository interface {
		List(ctx context.Context) ([]*model.Inventory, error)
		Get(ctx context.Context, bloodType string) (*model.Inventory, error)
		Apply(ctx context.Context, bloodType string, action model.InventoryAction, amount int, actor *uuid.UUID) (*model.InventoryLog, error)
		ListLogs(ctx context.Context, limit int) ([]*model.InventoryLog, error)
	}

	RequestRepository interface {
		Create(ctx context.Context, req *model.UrgentRequest, actor *uuid.UUID) error
		Get(ctx context.Context, id uuid.UUID) (*model.UrgentRequest, error)
		List(ctx context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error)
		// UpdateStatus only succeeds while the stored status still equals from.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, actor *uuid.UUID) error
		Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error
		ListLogs(ctx context.Context, limit int) ([]*model.RequestLog, error)
	}

	EventRepository interface {
		Create(ctx context.Context, event *model.Event) error
		Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
		Update(ctx context.Context, event *model.Event) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Event, error)
		ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.EventWithCounts, error)
	}

	RegistrationRepository interface {
		Create(ctx context.Context, reg *model.Registration) error
		Get(ctx context.Context, id uuid.UUID) (*model.Registration, error)
		Exists(ctx context.Context, donorID, eventID uuid.UUID) (bool, error)
		ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.RegistrationDetail, error)
		ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.RegistrationDetail, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.RegistrationStatus) error
		// MarkAttended records attendance once and flips the registration to Attended.
		MarkAttended(ctx context.Context, eventID, donorID uuid.UUID) (*model.Attendance, error)
		ListAttendance(ctx context.Context, eventID uuid.UUID) ([]*model.Attendance, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
		CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
		MarkRead(ctx context.Context, id, userID uuid.UUID) error
		MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
		DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	ReportRepository interface {
		Create(ctx context.Context, report *model.EventReport) error
		Get(ctx context.Context, id uuid.UUID) (*model.EventReport, error)
		ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.EventReport, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}
)

// Store groups one implementation of every repository.
type Store struct {
	Users         UserRepository
	Donors        DonorRepository
	Staff         StaffRepository
	Organizers    OrganizerRepository
	Inventory     InventoryRepository
	Requests      RequestRepository
	Events        EventRepository
	Registrations RegistrationRepository
	Notifications NotificationRepository
	Reports       ReportRepository
}
