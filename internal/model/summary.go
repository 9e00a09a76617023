package model

import "time"

type Summary struct {
	TotalUsers           int          `json:"total_users"`
	ActiveUsers          int          `json:"active_users"`
	SuspendedUsers       int          `json:"suspended_users"`
	TotalInventoryTypes  int          `json:"total_inventory_types"`
	TotalInventoryVolume int          `json:"total_inventory_volume"`
	LowStock             []*Inventory `json:"low_stock"`
	TotalRequests        int          `json:"total_requests"`
	PendingRequests      int          `json:"pending"`
	ApprovedRequests     int          `json:"approved"`
	FulfilledRequests    int          `json:"fulfilled"`
}

type Analytics struct {
	Summary         *Summary         `json:"summary"`
	InventoryLogs   []*InventoryLog  `json:"inventory_logs"`
	RequestLogs     []*RequestLog    `json:"request_logs"`
	PendingRequests []*UrgentRequest `json:"pending_requests"`
}

type StaffDashboard struct {
	HospitalName    string       `json:"hospital_name"`
	TotalUnits      int          `json:"total_units"`
	PendingRequests int          `json:"pending_requests"`
	TotalDonors     int          `json:"total_donors"`
	LowStock        []*Inventory `json:"low_stock"`
}

type DonorDashboard struct {
	Donor            *Donor                `json:"donor"`
	Registrations    []*RegistrationDetail `json:"registrations"`
	LastDonationDate *time.Time            `json:"last_donation_date,omitempty"`
	UnreadCount      int                   `json:"unread_count"`
}

type OrganizerDashboard struct {
	TotalEvents        int                `json:"total_events"`
	TotalRegistrations int                `json:"total_registrations"`
	TotalAttendance    int                `json:"total_attendance"`
	BloodUnits         int                `json:"blood_units"`
	RecentEvents       []*EventWithCounts `json:"recent_events"`
	UpcomingEvents     []*EventWithCounts `json:"upcoming_events"`
	CompletedEvents    int                `json:"completed_events"`
	AverageAttendance  float64            `json:"average_attendance"`
	SuccessRate        float64            `json:"success_rate"`
}
