// Package memory holds map backed repositories with the same semantics as
// the postgres ones. Service and handler tests run against them.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

// Store is a shared in-memory database. Every repository built from it sees
// the same data.
type Store struct {
	mu sync.Mutex

	users         map[uuid.UUID]*model.User
	donors        map[uuid.UUID]*model.Donor
	staff         map[uuid.UUID]*model.Staff
	organizers    map[uuid.UUID]*model.Organizer
	inventory     map[string]*model.Inventory
	inventoryLogs []*model.InventoryLog
	requests      map[uuid.UUID]*model.UrgentRequest
	requestLogs   []*model.RequestLog
	events        map[uuid.UUID]*model.Event
	registrations map[uuid.UUID]*model.Registration
	attendance    []*model.Attendance
	notifications map[uuid.UUID]*model.Notification
	reports       map[uuid.UUID]*model.EventReport

	// FailNotificationFor makes Notifications().Create fail for these users.
	FailNotificationFor map[uuid.UUID]bool
}

func NewStore() *Store {
	return &Store{
		users:               map[uuid.UUID]*model.User{},
		donors:              map[uuid.UUID]*model.Donor{},
		staff:               map[uuid.UUID]*model.Staff{},
		organizers:          map[uuid.UUID]*model.Organizer{},
		inventory:           map[string]*model.Inventory{},
		requests:            map[uuid.UUID]*model.UrgentRequest{},
		events:              map[uuid.UUID]*model.Event{},
		registrations:       map[uuid.UUID]*model.Registration{},
		notifications:       map[uuid.UUID]*model.Notification{},
		reports:             map[uuid.UUID]*model.EventReport{},
		FailNotificationFor: map[uuid.UUID]bool{},
	}
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Donors() repository.DonorRepository               { return donorRepo{s} }
func (s *Store) Staff() repository.StaffRepository                { return staffRepo{s} }
func (s *Store) Organizers() repository.OrganizerRepository       { return organizerRepo{s} }
func (s *Store) Inventory() repository.InventoryRepository        { return inventoryRepo{s} }
func (s *Store) Requests() repository.RequestRepository           { return requestRepo{s} }
func (s *Store) Events() repository.EventRepository               { return eventRepo{s} }
func (s *Store) Registrations() repository.RegistrationRepository { return registrationRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Reports() repository.ReportRepository             { return reportRepo{s} }

// Repositories returns the full repository set over this store.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Users:         s.Users(),
		Donors:        s.Donors(),
		Staff:         s.Staff(),
		Organizers:    s.Organizers(),
		Inventory:     s.Inventory(),
		Requests:      s.Requests(),
		Events:        s.Events(),
		Registrations: s.Registrations(),
		Notifications: s.Notifications(),
		Reports:       s.Reports(),
	}
}

// InventoryLogs returns a copy of the ledger log in insertion order.
func (s *Store) InventoryLogs() []*model.InventoryLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.InventoryLog(nil), s.inventoryLogs...)
}

// RequestLogs returns a copy of the request log in insertion order.
func (s *Store) RequestLogs() []*model.RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.RequestLog(nil), s.requestLogs...)
}

// AllNotifications returns every stored notification.
func (s *Store) AllNotifications() []*model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// PutDonor inserts a donor row directly, with or without a user.
func (s *Store) PutDonor(d *model.Donor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	s.donors[d.ID] = &cp
}

// PutInventory sets a stock row directly.
func (s *Store) PutInventory(bloodType string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[bloodType] = &model.Inventory{BloodType: bloodType, Quantity: quantity}
}

func notFound(op string) error {
	return errors.Join(repository.ErrNotFound, errors.New(op))
}

type userRepo struct{ s *Store }

func (r userRepo) CreateAccount(_ context.Context, account *model.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user := account.User
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}

	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	u := *user
	r.s.users[user.ID] = &u

	switch {
	case account.Donor != nil:
		d := account.Donor
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		id := user.ID
		d.UserID = &id
		d.Email = user.Email
		d.CreatedAt, d.UpdatedAt = now, now
		cp := *d
		r.s.donors[d.ID] = &cp
	case account.Staff != nil:
		st := account.Staff
		if st.ID == uuid.Nil {
			st.ID = uuid.New()
		}
		st.UserID = user.ID
		st.CreatedAt = now
		cp := *st
		r.s.staff[st.ID] = &cp
	case account.Organizer != nil:
		o := account.Organizer
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		o.UserID = user.ID
		o.CreatedAt = now
		cp := *o
		r.s.organizers[o.ID] = &cp
	}
	return nil
}

func (r userRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("get user")
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("get user by email")
}

func (r userRepo) GetAccount(ctx context.Context, userID uuid.UUID) (*model.Account, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	account := &model.Account{User: user}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.donors {
		if d.UserID != nil && *d.UserID == userID {
			cp := *d
			cp.Email = user.Email
			account.Donor = &cp
		}
	}
	for _, st := range r.s.staff {
		if st.UserID == userID {
			cp := *st
			account.Staff = &cp
		}
	}
	for _, o := range r.s.organizers {
		if o.UserID == userID {
			cp := *o
			account.Organizer = &cp
		}
	}
	return account, nil
}

func (r userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r userRepo) List(_ context.Context) ([]*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r userRepo) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return notFound("update user")
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r userRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.UserStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return notFound("update user status")
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return nil
}

func (r userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return notFound("delete user")
	}
	delete(r.s.users, id)
	for _, d := range r.s.donors {
		if d.UserID != nil && *d.UserID == id {
			d.UserID = nil
		}
	}
	for sid, st := range r.s.staff {
		if st.UserID == id {
			delete(r.s.staff, sid)
		}
	}
	for oid, o := range r.s.organizers {
		if o.UserID == id {
			delete(r.s.organizers, oid)
		}
	}
	for nid, n := range r.s.notifications {
		if n.UserID == id {
			delete(r.s.notifications, nid)
		}
	}
	return nil
}

type donorRepo struct{ s *Store }

// withEmail copies d and fills the email from its user. Callers hold the lock.
func (r donorRepo) withEmail(d *model.Donor) *model.Donor {
	cp := *d
	cp.Email = ""
	if d.UserID != nil {
		if u, ok := r.s.users[*d.UserID]; ok {
			cp.Email = u.Email
		}
	}
	return &cp
}

func (r donorRepo) Get(_ context.Context, id uuid.UUID) (*model.Donor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[id]
	if !ok {
		return nil, notFound("get donor")
	}
	return r.withEmail(d), nil
}

func (r donorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Donor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.donors {
		if d.UserID != nil && *d.UserID == userID {
			return r.withEmail(d), nil
		}
	}
	return nil, notFound("get donor by user")
}

func (r donorRepo) filter(keep func(*model.Donor) bool) []*model.Donor {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Donor{}
	for _, d := range r.s.donors {
		if keep(d) {
			out = append(out, r.withEmail(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonorName < out[j].DonorName })
	return out
}

func (r donorRepo) List(_ context.Context) ([]*model.Donor, error) {
	return r.filter(func(*model.Donor) bool { return true }), nil
}

func (r donorRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.donors), nil
}

func (r donorRepo) Update(_ context.Context, donor *model.Donor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[donor.ID]
	if !ok {
		return notFound("update donor")
	}
	d.DonorName = donor.DonorName
	d.BloodType = donor.BloodType
	d.Age = donor.Age
	d.LastDonationDate = donor.LastDonationDate
	d.UpdatedAt = time.Now()
	return nil
}

func (r donorRepo) SetEligibility(_ context.Context, id uuid.UUID, eligible bool, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[id]
	if !ok {
		return notFound("set donor eligibility")
	}
	d.EligibilityStatus = eligible
	d.DisqualificationReason = reason
	d.UpdatedAt = time.Now()
	return nil
}

func (r donorRepo) UpdateMedicalHistory(_ context.Context, id uuid.UUID, history string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.donors[id]
	if !ok {
		return notFound("update medical history")
	}
	d.MedicalHistory = history
	d.UpdatedAt = time.Now()
	return nil
}

func (r donorRepo) ListEligible(_ context.Context) ([]*model.Donor, error) {
	return r.filter(func(d *model.Donor) bool { return d.EligibilityStatus }), nil
}

type staffRepo struct{ s *Store }

func (r staffRepo) Get(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.staff[id]
	if !ok {
		return nil, notFound("get staff")
	}
	cp := *st
	return &cp, nil
}

func (r staffRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Staff, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.staff {
		if st.UserID == userID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, notFound("get staff by user")
}

type organizerRepo struct{ s *Store }

func (r organizerRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Organizer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.organizers {
		if o.UserID == userID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, notFound("get organizer by user")
}

type inventoryRepo struct{ s *Store }

func (r inventoryRepo) List(_ context.Context) ([]*model.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Inventory, 0, len(r.s.inventory))
	for _, item := range r.s.inventory {
		cp := *item
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BloodType < out[j].BloodType })
	return out, nil
}

func (r inventoryRepo) Get(_ context.Context, bloodType string) (*model.Inventory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.inventory[bloodType]
	if !ok {
		return nil, notFound("get inventory")
	}
	cp := *item
	return &cp, nil
}

func (r inventoryRepo) Apply(_ context.Context, bloodType string, action model.InventoryAction, amount int, actor *uuid.UUID) (*model.InventoryLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.s.inventory[bloodType]
	if !ok {
		item = &model.Inventory{BloodType: bloodType}
		r.s.inventory[bloodType] = item
	}

	next, err := model.ApplyChange(item.Quantity, action, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &model.InventoryLog{
		ID:          uuid.New(),
		BloodType:   bloodType,
		OldQuantity: item.Quantity,
		NewQuantity: next,
		Action:      action,
		ChangedBy:   actor,
		ChangedAt:   now,
	}
	item.Quantity = next
	item.UpdatedAt = &now
	item.LastUpdatedBy = actor
	r.s.inventoryLogs = append(r.s.inventoryLogs, entry)

	cp := *entry
	return &cp, nil
}

func (r inventoryRepo) ListLogs(_ context.Context, limit int) ([]*model.InventoryLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.InventoryLog{}
	for i := len(r.s.inventoryLogs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.s.inventoryLogs[i]
		out = append(out, &cp)
	}
	return out, nil
}

type requestRepo struct{ s *Store }

func (r requestRepo) Create(_ context.Context, req *model.UrgentRequest, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	req.RequestedAt, req.UpdatedAt = now, now
	cp := *req
	r.s.requests[req.ID] = &cp
	r.s.requestLogs = append(r.s.requestLogs, &model.RequestLog{
		ID: uuid.New(), RequestID: req.ID, NewStatus: string(req.Status),
		Action: model.RequestActionCreate, ChangedBy: actor, ChangedAt: now,
	})
	return nil
}

func (r requestRepo) Get(_ context.Context, id uuid.UUID) (*model.UrgentRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, notFound("get urgent request")
	}
	cp := *req
	return &cp, nil
}

func (r requestRepo) List(_ context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.UrgentRequest{}
	for _, req := range r.s.requests {
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.BloodType != "" && req.BloodType != filter.BloodType {
			continue
		}
		cp := *req
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (r requestRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.RequestStatus, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return notFound("update request status")
	}
	if req.Status != from {
		return repository.ErrConflict
	}
	now := time.Now()
	req.Status = to
	if actor != nil {
		req.HandledBy = actor
	}
	req.UpdatedAt = now
	r.s.requestLogs = append(r.s.requestLogs, &model.RequestLog{
		ID: uuid.New(), RequestID: id, OldStatus: string(from), NewStatus: string(to),
		Action: model.RequestActionStatus, ChangedBy: actor, ChangedAt: now,
	})
	return nil
}

func (r requestRepo) Delete(_ context.Context, id uuid.UUID, actor *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return notFound("delete urgent request")
	}
	delete(r.s.requests, id)
	r.s.requestLogs = append(r.s.requestLogs, &model.RequestLog{
		ID: uuid.New(), RequestID: id, OldStatus: string(req.Status),
		Action: model.RequestActionDelete, ChangedBy: actor, ChangedAt: time.Now(),
	})
	return nil
}

func (r requestRepo) ListLogs(_ context.Context, limit int) ([]*model.RequestLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.RequestLog{}
	for i := len(r.s.requestLogs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.s.requestLogs[i]
		out = append(out, &cp)
	}
	return out, nil
}

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.EventUpcoming
	}
	event.CreatedAt, event.UpdatedAt = now, now
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r eventRepo) Get(_ context.Context, id uuid.UUID) (*model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, notFound("get event")
	}
	cp := *e
	return &cp, nil
}

func (r eventRepo) Update(_ context.Context, event *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; !ok {
		return notFound("update event")
	}
	event.UpdatedAt = time.Now()
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r eventRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.EventStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return notFound("update event status")
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	return nil
}

func (r eventRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return notFound("delete event")
	}
	delete(r.s.events, id)
	for rid, reg := range r.s.registrations {
		if reg.EventID == id {
			delete(r.s.registrations, rid)
		}
	}
	return nil
}

func (r eventRepo) List(_ context.Context) ([]*model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Event{}
	for _, e := range r.s.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (r eventRepo) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]*model.EventWithCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.EventWithCounts{}
	for _, e := range r.s.events {
		if e.OrganizerID != organizerID {
			continue
		}
		item := &model.EventWithCounts{Event: *e}
		for _, reg := range r.s.registrations {
			if reg.EventID == e.ID {
				item.RegistrationCount++
			}
		}
		for _, a := range r.s.attendance {
			if a.EventID == e.ID {
				item.AttendanceCount++
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.After(out[j].EventDate) })
	return out, nil
}

type registrationRepo struct{ s *Store }

func (r registrationRepo) Create(_ context.Context, reg *model.Registration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.registrations {
		if existing.DonorID == reg.DonorID && existing.EventID == reg.EventID {
			return repository.ErrDuplicate
		}
	}
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if reg.Status == "" {
		reg.Status = model.RegistrationPending
	}
	reg.RegisteredAt = time.Now()
	cp := *reg
	r.s.registrations[reg.ID] = &cp
	return nil
}

func (r registrationRepo) Get(_ context.Context, id uuid.UUID) (*model.Registration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return nil, notFound("get registration")
	}
	cp := *reg
	return &cp, nil
}

func (r registrationRepo) Exists(_ context.Context, donorID, eventID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, reg := range r.s.registrations {
		if reg.DonorID == donorID && reg.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (r registrationRepo) details(keep func(*model.Registration) bool) []*model.RegistrationDetail {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.RegistrationDetail{}
	for _, reg := range r.s.registrations {
		if !keep(reg) {
			continue
		}
		d, okD := r.s.donors[reg.DonorID]
		e, okE := r.s.events[reg.EventID]
		if !okD || !okE {
			continue
		}
		out = append(out, &model.RegistrationDetail{
			Registration:  *reg,
			DonorName:     d.DonorName,
			BloodType:     d.BloodType,
			EventName:     e.EventName,
			EventDate:     e.EventDate,
			EventTime:     e.EventTime,
			EventLocation: e.Location,
			EventStatus:   string(e.Status),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out
}

func (r registrationRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*model.RegistrationDetail, error) {
	return r.details(func(reg *model.Registration) bool { return reg.EventID == eventID }), nil
}

func (r registrationRepo) ListByDonor(_ context.Context, donorID uuid.UUID) ([]*model.RegistrationDetail, error) {
	return r.details(func(reg *model.Registration) bool { return reg.DonorID == donorID }), nil
}

func (r registrationRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.RegistrationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reg, ok := r.s.registrations[id]
	if !ok {
		return notFound("update registration status")
	}
	reg.Status = status
	return nil
}

func (r registrationRepo) MarkAttended(_ context.Context, eventID, donorID uuid.UUID) (*model.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.donors[donorID]
	if !ok {
		return nil, notFound("mark attendance")
	}

	var reg *model.Registration
	for _, candidate := range r.s.registrations {
		if candidate.EventID == eventID && candidate.DonorID == donorID {
			reg = candidate
		}
	}
	if reg != nil && !reg.Status.AcceptsAttendance() {
		return nil, fmt.Errorf("registration is %s: %w", reg.Status, repository.ErrConflict)
	}

	var att *model.Attendance
	for _, a := range r.s.attendance {
		if a.EventID == eventID && a.DonorID == donorID {
			att = a
		}
	}
	if att == nil {
		att = &model.Attendance{ID: uuid.New(), EventID: eventID, DonorID: donorID, CheckInTime: time.Now()}
		r.s.attendance = append(r.s.attendance, att)
	}
	if reg != nil {
		reg.Status = model.RegistrationAttended
	}

	cp := *att
	cp.DonorName = d.DonorName
	cp.BloodType = d.BloodType
	return &cp, nil
}

func (r registrationRepo) ListAttendance(_ context.Context, eventID uuid.UUID) ([]*model.Attendance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Attendance{}
	for _, a := range r.s.attendance {
		if a.EventID != eventID {
			continue
		}
		cp := *a
		if d, ok := r.s.donors[a.DonorID]; ok {
			cp.DonorName = d.DonorName
			cp.BloodType = d.BloodType
		}
		out = append(out, &cp)
	}
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailNotificationFor[n.UserID] {
		return errors.New("insert notification: connection reset")
	}
	if _, ok := r.s.users[n.UserID]; !ok {
		return errors.New("insert notification: user does not exist")
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.NotificationType == "" {
		n.NotificationType = model.NotificationTypeInfo
	}
	n.CreatedAt = time.Now()
	cp := *n
	r.s.notifications[n.ID] = &cp
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r notificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return notFound("mark notification read")
	}
	n.IsRead = true
	return nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r notificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for id, n := range r.s.notifications {
		if n.IsRead && n.CreatedAt.Before(cutoff) {
			delete(r.s.notifications, id)
			count++
		}
	}
	return count, nil
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, report *model.EventReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.GeneratedDate = time.Now()
	cp := *report
	r.s.reports[report.ID] = &cp
	return nil
}

func (r reportRepo) Get(_ context.Context, id uuid.UUID) (*model.EventReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[id]
	if !ok {
		return nil, notFound("get report")
	}
	cp := *rep
	return &cp, nil
}

func (r reportRepo) ListByOrganizer(_ context.Context, organizerID uuid.UUID) ([]*model.EventReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*model.EventReport{}
	for _, rep := range r.s.reports {
		if e, ok := r.s.events[rep.EventID]; ok && e.OrganizerID == organizerID {
			cp := *rep
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedDate.After(out[j].GeneratedDate) })
	return out, nil
}

func (r reportRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return notFound("delete report")
	}
	delete(r.s.reports, id)
	return nil
}
