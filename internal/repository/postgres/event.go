package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const eventSelect = `
	SELECT e.id, e.organizer_id, COALESCE(o.organizer_name, '') AS organizer_name, e.event_name, e.event_date,
		e.event_time, e.location, e.description, e.target_goal, e.status, e.created_at, e.updated_at
	FROM events e
	LEFT JOIN organizers o ON o.id = e.organizer_id`

type eventRepository struct {
	*BaseRepository
}

func NewEventRepository(base *BaseRepository) repository.EventRepository {
	return &eventRepository{BaseRepository: base}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	now := time.Now()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.EventUpcoming
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, organizer_id, event_name, event_date, event_time, location, description,
			target_goal, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		event.ID, event.OrganizerID, event.EventName, event.EventDate, event.EventTime, event.Location,
		event.Description, event.TargetGoal, event.Status, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return wrap("create event", err)
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.GetContext(ctx, &event, eventSelect+` WHERE e.id = $1`, id); err != nil {
		return nil, wrap("get event", err)
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	event.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET event_name = $1, event_date = $2, event_time = $3, location = $4, description = $5,
			target_goal = $6, status = $7, updated_at = $8
		WHERE id = $9`,
		event.EventName, event.EventDate, event.EventTime, event.Location, event.Description,
		event.TargetGoal, event.Status, event.UpdatedAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffected(result, "update event")
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	return checkAffected(result, "update event status")
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffected(result, "delete event")
}

func (r *eventRepository) List(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	if err := r.db.SelectContext(ctx, &events, eventSelect+` ORDER BY e.event_date`); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListByOrganizer returns the organizer's events, newest first, with
// registration and attendance counts.
func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.EventWithCounts, error) {
	var events []*model.EventWithCounts
	err := r.db.SelectContext(ctx, &events, `
		SELECT e.id, e.organizer_id, COALESCE(o.organizer_name, '') AS organizer_name, e.event_name, e.event_date,
			e.event_time, e.location, e.description, e.target_goal, e.status, e.created_at, e.updated_at,
			(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS registration_count,
			(SELECT COUNT(*) FROM attendance a WHERE a.event_id = e.id) AS attendance_count
		FROM events e
		LEFT JOIN organizers o ON o.id = e.organizer_id
		WHERE e.organizer_id = $1
		ORDER BY e.event_date DESC`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}
