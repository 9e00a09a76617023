package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

type fixture struct {
	store *memory.Store
	svc   *Service
	org   uuid.UUID
}

func newFixture() *fixture {
	store := memory.NewStore()
	svc := NewService(store.Events(), store.Registrations(), store.Donors())
	svc.now = func() time.Time { return time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) }
	return &fixture{store: store, svc: svc, org: uuid.New()}
}

func (f *fixture) createEvent(t *testing.T, date string) *model.Event {
	t.Helper()
	e, err := f.svc.CreateEvent(context.Background(), f.org, &model.SaveEventRequest{
		EventName:  "Community Blood Drive - January 2026",
		EventDate:  date,
		EventTime:  "09:00",
		Location:   "Town Hall",
		TargetGoal: 50,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) register(t *testing.T, eventID uuid.UUID, name, bloodType string) *model.Registration {
	t.Helper()
	d := &model.Donor{DonorName: name, BloodType: bloodType, EligibilityStatus: true}
	f.store.PutDonor(d)
	reg := &model.Registration{DonorID: d.ID, EventID: eventID}
	require.NoError(t, f.store.Registrations().Create(context.Background(), reg))
	return reg
}

func TestCreateEvent_DefaultsToUpcoming(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	assert.Equal(t, model.EventUpcoming, e.Status)
	assert.Equal(t, 20, e.EventDate.Day())

	_, err := f.svc.CreateEvent(context.Background(), f.org, &model.SaveEventRequest{EventName: "x", EventDate: "20/01/2026", Location: "y"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestGetEvent_OtherOrganizerIsNotFound(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")

	_, err := f.svc.GetEvent(context.Background(), uuid.New(), e.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = f.svc.DeleteEvent(context.Background(), uuid.New(), e.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestSetStatus_Transitions(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")

	got, err := f.svc.SetStatus(context.Background(), f.org, e.ID, model.EventOngoing)
	require.NoError(t, err)
	assert.Equal(t, model.EventOngoing, got.Status)

	_, err = f.svc.SetStatus(context.Background(), f.org, e.ID, model.EventOngoing)
	require.NoError(t, err)

	_, err = f.svc.SetStatus(context.Background(), f.org, e.ID, model.EventUpcoming)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.SetStatus(context.Background(), f.org, e.ID, model.EventCompleted)
	require.NoError(t, err)
}

func TestRegistrations_Stats(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	r1 := f.register(t, e.ID, "Mary Johnson", "O-")
	r2 := f.register(t, e.ID, "John Smith", "A+")
	f.register(t, e.ID, "Olga", "O-")
	f.register(t, e.ID, "Robert Chen", "B+")

	_, err := f.svc.UpdateRegistrationStatus(context.Background(), f.org, r1.ID, model.RegistrationConfirmed)
	require.NoError(t, err)
	_, err = f.svc.UpdateRegistrationStatus(context.Background(), f.org, r2.ID, model.RegistrationAttended)
	require.NoError(t, err)

	res, err := f.svc.Registrations(context.Background(), f.org, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Confirmed)
	assert.Equal(t, 1, res.Stats.Attended)
	assert.Equal(t, 25.0, res.Stats.AttendanceRate)
	assert.Equal(t, 2, res.Stats.BloodTypes["O-"])

	att, err := f.svc.Attendance(context.Background(), f.org, e.ID)
	require.NoError(t, err)
	require.Len(t, att, 1)
	assert.Equal(t, r2.DonorID, att[0].DonorID)
}

func TestUpdateRegistrationStatus_IllegalTransition(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	r := f.register(t, e.ID, "Mary Johnson", "O-")

	_, err := f.svc.UpdateRegistrationStatus(context.Background(), f.org, r.ID, model.RegistrationNoShow)
	require.NoError(t, err)

	_, err = f.svc.UpdateRegistrationStatus(context.Background(), f.org, r.ID, model.RegistrationConfirmed)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.UpdateRegistrationStatus(context.Background(), uuid.New(), r.ID, model.RegistrationConfirmed)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestMarkAttendance_Idempotent(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	r := f.register(t, e.ID, "Mary Johnson", "O-")

	for i := 0; i < 2; i++ {
		att, err := f.svc.MarkAttendance(context.Background(), f.org, e.ID, r.DonorID)
		require.NoError(t, err)
		assert.Equal(t, "Mary Johnson", att.DonorName)
	}

	list, err := f.svc.Attendance(context.Background(), f.org, e.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	reg, err := f.store.Registrations().Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationAttended, reg.Status)

	_, err = f.svc.MarkAttendance(context.Background(), f.org, e.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestMarkAttendance_NoShowStaysNoShow(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	r := f.register(t, e.ID, "Mary Johnson", "O-")

	_, err := f.svc.UpdateRegistrationStatus(context.Background(), f.org, r.ID, model.RegistrationNoShow)
	require.NoError(t, err)

	_, err = f.svc.UpdateRegistrationStatus(context.Background(), f.org, r.ID, model.RegistrationAttended)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	_, err = f.svc.MarkAttendance(context.Background(), f.org, e.ID, r.DonorID)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	reg, err := f.store.Registrations().Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationNoShow, reg.Status)

	list, err := f.svc.Attendance(context.Background(), f.org, e.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarkAttendance_CancelledEventRejected(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	r := f.register(t, e.ID, "Mary Johnson", "O-")

	_, err := f.svc.SetStatus(context.Background(), f.org, e.ID, model.EventCancelled)
	require.NoError(t, err)

	_, err = f.svc.MarkAttendance(context.Background(), f.org, e.ID, r.DonorID)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = f.svc.UpdateRegistrationStatus(context.Background(), f.org, r.ID, model.RegistrationAttended)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	reg, err := f.store.Registrations().Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationPending, reg.Status)
}

func TestMarkAttendance_WalkIn(t *testing.T) {
	f := newFixture()
	e := f.createEvent(t, "2026-01-20")
	d := &model.Donor{DonorName: "Walk In", BloodType: "B+", EligibilityStatus: true}
	f.store.PutDonor(d)

	att, err := f.svc.MarkAttendance(context.Background(), f.org, e.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Walk In", att.DonorName)
}

func TestComputeDashboard(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }
	events := []*model.EventWithCounts{
		{Event: model.Event{EventDate: day(20), Status: model.EventUpcoming}, RegistrationCount: 4},
		{Event: model.Event{EventDate: day(5), Status: model.EventCompleted}, RegistrationCount: 10, AttendanceCount: 8},
		{Event: model.Event{EventDate: day(3), Status: model.EventCompleted}, RegistrationCount: 6, AttendanceCount: 3},
		{Event: model.Event{EventDate: day(2), Status: model.EventUpcoming}},
	}

	dash := ComputeDashboard(events, now)
	assert.Equal(t, 4, dash.TotalEvents)
	assert.Equal(t, 20, dash.TotalRegistrations)
	assert.Equal(t, 11, dash.TotalAttendance)
	assert.Equal(t, 11, dash.BloodUnits)
	assert.Equal(t, 2, dash.CompletedEvents)
	assert.Equal(t, 5.5, dash.AverageAttendance)
	assert.Equal(t, 55.0, dash.SuccessRate)
	assert.Len(t, dash.UpcomingEvents, 1)
	assert.Len(t, dash.RecentEvents, 4)
}
