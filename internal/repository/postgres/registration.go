package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const registrationDetailSelect = `
	SELECT r.id, r.donor_id, r.event_id, r.status, r.registered_at,
		d.donor_name, d.blood_type,
		e.event_name, e.event_date, e.event_time, e.location AS event_location, e.status AS event_status
	FROM registrations r
	JOIN donors d ON d.id = r.donor_id
	JOIN events e ON e.id = r.event_id`

type registrationRepository struct {
	*BaseRepository
}

func NewRegistrationRepository(base *BaseRepository) repository.RegistrationRepository {
	return &registrationRepository{BaseRepository: base}
}

// Create relies on the (donor_id, event_id) unique constraint; a second
// registration surfaces as repository.ErrDuplicate.
func (r *registrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if reg.Status == "" {
		reg.Status = model.RegistrationPending
	}
	reg.RegisteredAt = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO registrations (id, donor_id, event_id, status, registered_at)
		VALUES ($1, $2, $3, $4, $5)`,
		reg.ID, reg.DonorID, reg.EventID, reg.Status, reg.RegisteredAt,
	)
	if err != nil {
		return wrap("create registration", err)
	}
	return nil
}

func (r *registrationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.GetContext(ctx, &reg,
		`SELECT id, donor_id, event_id, status, registered_at FROM registrations WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("get registration", err)
	}
	return &reg, nil
}

func (r *registrationRepository) Exists(ctx context.Context, donorID, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE donor_id = $1 AND event_id = $2)`,
		donorID, eventID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.RegistrationDetail, error) {
	var regs []*model.RegistrationDetail
	if err := r.db.SelectContext(ctx, &regs, registrationDetailSelect+` WHERE r.event_id = $1 ORDER BY r.registered_at`, eventID); err != nil {
		return nil, fmt.Errorf("failed to list event registrations: %w", err)
	}
	return regs, nil
}

func (r *registrationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]*model.RegistrationDetail, error) {
	var regs []*model.RegistrationDetail
	if err := r.db.SelectContext(ctx, &regs, registrationDetailSelect+` WHERE r.donor_id = $1 ORDER BY e.event_date DESC`, donorID); err != nil {
		return nil, fmt.Errorf("failed to list donor registrations: %w", err)
	}
	return regs, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RegistrationStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE registrations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update registration status: %w", err)
	}
	return checkAffected(result, "update registration status")
}

// MarkAttended inserts the attendance row at most once and moves the
// donor's registration for the event to Attended.
func (r *registrationRepository) MarkAttended(ctx context.Context, eventID, donorID uuid.UUID) (*model.Attendance, error) {
	var att model.Attendance

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current model.RegistrationStatus
		err := tx.GetContext(ctx, &current,
			`SELECT status FROM registrations WHERE event_id = $1 AND donor_id = $2 FOR UPDATE`,
			eventID, donorID,
		)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// walk-in
		case err != nil:
			return fmt.Errorf("failed to lock registration: %w", err)
		case !current.AcceptsAttendance():
			return fmt.Errorf("registration is %s: %w", current, repository.ErrConflict)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (id, event_id, donor_id, check_in_time)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (event_id, donor_id) DO NOTHING`,
			uuid.New(), eventID, donorID, time.Now(),
		); err != nil {
			return wrap("insert attendance", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE registrations SET status = $1
			WHERE event_id = $2 AND donor_id = $3 AND status IN ($4, $5)`,
			model.RegistrationAttended, eventID, donorID, model.RegistrationPending, model.RegistrationConfirmed,
		); err != nil {
			return fmt.Errorf("failed to update registration: %w", err)
		}

		return tx.GetContext(ctx, &att, `
			SELECT a.id, a.event_id, a.donor_id, d.donor_name, d.blood_type, a.check_in_time
			FROM attendance a
			JOIN donors d ON d.id = a.donor_id
			WHERE a.event_id = $1 AND a.donor_id = $2`, eventID, donorID)
	})
	if err != nil {
		return nil, wrap("mark attendance", err)
	}
	return &att, nil
}

func (r *registrationRepository) ListAttendance(ctx context.Context, eventID uuid.UUID) ([]*model.Attendance, error) {
	var list []*model.Attendance
	err := r.db.SelectContext(ctx, &list, `
		SELECT a.id, a.event_id, a.donor_id, d.donor_name, d.blood_type, a.check_in_time
		FROM attendance a
		JOIN donors d ON d.id = a.donor_id
		WHERE a.event_id = $1
		ORDER BY a.check_in_time`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return list, nil
}
