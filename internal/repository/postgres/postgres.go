package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/repository"
)

// NewStore builds every repository over one connection pool.
func NewStore(db *sqlx.DB) *repository.Store {
	base := NewBaseRepository(db)
	return &repository.Store{
		Users:         NewUserRepository(base),
		Donors:        NewDonorRepository(base),
		Staff:         NewStaffRepository(base),
		Organizers:    NewOrganizerRepository(base),
		Inventory:     NewInventoryRepository(base),
		Requests:      NewRequestRepository(base),
		Events:        NewEventRepository(base),
		Registrations: NewRegistrationRepository(base),
		Notifications: NewNotificationRepository(base),
		Reports:       NewReportRepository(base),
	}
}
