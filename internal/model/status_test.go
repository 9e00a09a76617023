package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatus_Transitions(t *testing.T) {
	assert.True(t, RequestPending.CanTransitionTo(RequestApproved))
	assert.True(t, RequestPending.CanTransitionTo(RequestFulfilled))
	assert.True(t, RequestPending.CanTransitionTo(RequestCancelled))
	assert.True(t, RequestApproved.CanTransitionTo(RequestFulfilled))
	assert.True(t, RequestApproved.CanTransitionTo(RequestCancelled))

	assert.False(t, RequestApproved.CanTransitionTo(RequestPending))
	assert.False(t, RequestFulfilled.CanTransitionTo(RequestPending))
	assert.False(t, RequestFulfilled.CanTransitionTo(RequestCancelled))
	assert.False(t, RequestCancelled.CanTransitionTo(RequestApproved))

	assert.True(t, RequestFulfilled.IsTerminal())
	assert.True(t, RequestCancelled.IsTerminal())
	assert.False(t, RequestApproved.IsTerminal())
}

func TestRegistrationStatus_Transitions(t *testing.T) {
	assert.True(t, RegistrationPending.CanTransitionTo(RegistrationAttended))
	assert.True(t, RegistrationPending.CanTransitionTo(RegistrationNoShow))
	assert.True(t, RegistrationConfirmed.CanTransitionTo(RegistrationAttended))
	assert.False(t, RegistrationAttended.CanTransitionTo(RegistrationPending))
	assert.False(t, RegistrationNoShow.CanTransitionTo(RegistrationConfirmed))
	assert.False(t, RegistrationNoShow.CanTransitionTo(RegistrationAttended))

	assert.True(t, RegistrationPending.AcceptsAttendance())
	assert.True(t, RegistrationConfirmed.AcceptsAttendance())
	assert.True(t, RegistrationAttended.AcceptsAttendance())
	assert.False(t, RegistrationNoShow.AcceptsAttendance())
}

func TestEventStatus_Transitions(t *testing.T) {
	assert.True(t, EventUpcoming.CanTransitionTo(EventOngoing))
	assert.True(t, EventOngoing.CanTransitionTo(EventCompleted))
	assert.False(t, EventCompleted.CanTransitionTo(EventUpcoming))
	assert.False(t, EventCancelled.CanTransitionTo(EventOngoing))
	assert.False(t, EventStatus("Postponed").IsValid())
}

func TestEvent_IsPast(t *testing.T) {
	now := time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)

	today := &Event{EventDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)}
	yesterday := &Event{EventDate: time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)}
	tomorrow := &Event{EventDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)}

	assert.False(t, today.IsPast(now))
	assert.True(t, yesterday.IsPast(now))
	assert.False(t, tomorrow.IsPast(now))
}

func TestUserStatus_Toggle(t *testing.T) {
	assert.Equal(t, UserStatusSuspended, UserStatusActive.Toggle())
	assert.Equal(t, UserStatusActive, UserStatusSuspended.Toggle())
}
