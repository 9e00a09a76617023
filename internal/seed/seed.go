// Package seed loads the demo accounts, stock and events a fresh
// installation starts with.
package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/app"
	"github.com/bloodlink/bloodlink-api/internal/model"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

const (
	DefaultInventory = 15
	hospitalName     = "City General Hospital"
)

type donorSeed struct {
	name, email, bloodType string
	age                    int
	eligible               bool
	reason                 string
}

var donors = []donorSeed{
	{name: "John Smith", email: "john.smith@example.com", bloodType: "A+", age: 30, eligible: true},
	{name: "Mary Johnson", email: "mary.johnson@example.com", bloodType: "O-", age: 28, eligible: true},
	{name: "Robert Chen", email: "robert.chen@example.com", bloodType: "B+", age: 45, reason: "Blood pressure above acceptable limit"},
}

// Result lists what Run created.
type Result struct {
	Accounts  int
	Inventory int
	Requests  int
	Events    int
}

// Run creates the demo data. It returns an error if the admin account
// already exists so a database is never seeded twice.
func Run(ctx context.Context, svcs *app.Services) (*Result, error) {
	res := &Result{}

	if _, err := register(ctx, svcs, "System Admin", "admin@bloodlink.com", "admin123", model.RoleAdmin, nil); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("database already seeded: %w", err)
		}
		return nil, err
	}
	res.Accounts++

	staff, err := register(ctx, svcs, "Hospital Staff", "staff@bloodlink.com", "hospital123", model.RoleStaff, func(r *model.RegisterRequest) {
		r.HospitalName = hospitalName
	})
	if err != nil {
		return nil, err
	}
	res.Accounts++

	for _, d := range donors {
		d := d
		acct, err := register(ctx, svcs, d.name, d.email, "donor123", model.RoleDonor, func(r *model.RegisterRequest) {
			r.BloodType = d.bloodType
			r.Age = d.age
		})
		if err != nil {
			return nil, err
		}
		if _, err := svcs.Donors.SetEligibility(ctx, acct.Donor.ID, d.eligible, d.reason); err != nil {
			return nil, fmt.Errorf("set eligibility for %s: %w", d.email, err)
		}
		res.Accounts++
	}

	staffID := staff.User.ID
	for _, bt := range model.AllBloodTypes {
		qty := DefaultInventory
		if bt == model.BloodTypeOPos {
			qty = 25
		}
		if _, err := svcs.Inventory.Set(ctx, bt.String(), qty, &staffID); err != nil {
			return nil, fmt.Errorf("set %s inventory: %w", bt, err)
		}
		res.Inventory++
	}

	principal := &model.Principal{UserID: staffID, Email: staff.User.Email, Role: model.RoleStaff, ProfileID: staff.ProfileID()}
	if _, err := svcs.Requests.Create(ctx, principal, &model.CreateRequestRequest{
		BloodType:    "O-",
		UnitsNeeded:  5,
		UrgencyLevel: model.UrgencyHigh,
		PatientInfo:  "Emergency surgery for trauma patient",
	}); err != nil {
		return nil, fmt.Errorf("create urgent request: %w", err)
	}
	res.Requests++

	organizer, err := register(ctx, svcs, "Event Organizer", "organizer@bloodlink.com", "org123", model.RoleOrganizer, func(r *model.RegisterRequest) {
		r.OrganizerName = "Community Health Network"
	})
	if err != nil {
		return nil, err
	}
	res.Accounts++

	if _, err := svcs.Events.CreateEvent(ctx, organizer.Organizer.ID, &model.SaveEventRequest{
		EventName:   "Community Blood Drive - January 2026",
		EventDate:   "2026-01-24",
		EventTime:   "09:00",
		Location:    "City Park",
		Description: "Quarterly community drive",
		TargetGoal:  50,
		Status:      model.EventCompleted,
	}); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	res.Events++

	log.Info().
		Int("accounts", res.Accounts).
		Int("inventory", res.Inventory).
		Int("requests", res.Requests).
		Int("events", res.Events).
		Msg("seed data loaded")
	return res, nil
}

func register(ctx context.Context, svcs *app.Services, name, email, password string, role model.Role, profile func(*model.RegisterRequest)) (*model.Account, error) {
	req := &model.RegisterRequest{
		FullName:        name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		Role:            role,
	}
	if profile != nil {
		profile(req)
	}
	acct, err := svcs.Auth.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return acct, nil
}
