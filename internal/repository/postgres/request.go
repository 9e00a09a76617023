package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const requestColumns = `id, blood_type, units_needed, urgency_level, status, hospital_name, patient_info, notes,
	requested_by, handled_by, requested_at, updated_at`

type requestRepository struct {
	*BaseRepository
}

func NewRequestRepository(base *BaseRepository) repository.RequestRepository {
	return &requestRepository{BaseRepository: base}
}

func insertRequestLog(ctx context.Context, tx *sqlx.Tx, entry *model.RequestLog) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO request_logs (id, request_id, old_status, new_status, action, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.RequestID, entry.OldStatus, entry.NewStatus, entry.Action, entry.ChangedBy, entry.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request log: %w", err)
	}
	return nil
}

func (r *requestRepository) Create(ctx context.Context, req *model.UrgentRequest, actor *uuid.UUID) error {
	now := time.Now()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	req.RequestedAt = now
	req.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO urgent_requests (id, blood_type, units_needed, urgency_level, status, hospital_name,
				patient_info, notes, requested_by, handled_by, requested_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			req.ID, req.BloodType, req.UnitsNeeded, req.UrgencyLevel, req.Status, req.HospitalName,
			req.PatientInfo, req.Notes, req.RequestedBy, req.HandledBy, req.RequestedAt, req.UpdatedAt,
		)
		if err != nil {
			return wrap("create urgent request", err)
		}

		return insertRequestLog(ctx, tx, &model.RequestLog{
			ID:        uuid.New(),
			RequestID: req.ID,
			NewStatus: string(req.Status),
			Action:    model.RequestActionCreate,
			ChangedBy: actor,
			ChangedAt: now,
		})
	})
}

func (r *requestRepository) Get(ctx context.Context, id uuid.UUID) (*model.UrgentRequest, error) {
	var req model.UrgentRequest
	if err := r.db.GetContext(ctx, &req, `SELECT `+requestColumns+` FROM urgent_requests WHERE id = $1`, id); err != nil {
		return nil, wrap("get urgent request", err)
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, filter model.RequestFilter) ([]*model.UrgentRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.BloodType != "" {
		args = append(args, filter.BloodType)
		where = append(where, fmt.Sprintf("blood_type = $%d", len(args)))
	}

	query := `SELECT ` + requestColumns + ` FROM urgent_requests`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY requested_at DESC`

	var reqs []*model.UrgentRequest
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list urgent requests: %w", err)
	}
	return reqs, nil
}

// UpdateStatus is a compare-and-swap on the status column. A row that exists
// but no longer holds from yields repository.ErrConflict.
func (r *requestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.RequestStatus, actor *uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()
		result, err := tx.ExecContext(ctx, `
			UPDATE urgent_requests
			SET status = $1, handled_by = COALESCE($2, handled_by), updated_at = $3
			WHERE id = $4 AND status = $5`,
			to, actor, now, id, from,
		)
		if err != nil {
			return fmt.Errorf("failed to update request status: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			var exists bool
			if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM urgent_requests WHERE id = $1)`, id); err != nil {
				return fmt.Errorf("failed to check urgent request: %w", err)
			}
			if exists {
				return fmt.Errorf("failed to update request status: %w", repository.ErrConflict)
			}
			return fmt.Errorf("failed to update request status: %w", repository.ErrNotFound)
		}

		return insertRequestLog(ctx, tx, &model.RequestLog{
			ID:        uuid.New(),
			RequestID: id,
			OldStatus: string(from),
			NewStatus: string(to),
			Action:    model.RequestActionStatus,
			ChangedBy: actor,
			ChangedAt: now,
		})
	})
}

func (r *requestRepository) Delete(ctx context.Context, id uuid.UUID, actor *uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var status string
		if err := tx.GetContext(ctx, &status,
			`DELETE FROM urgent_requests WHERE id = $1 RETURNING status`, id,
		); err != nil {
			return wrap("delete urgent request", err)
		}

		return insertRequestLog(ctx, tx, &model.RequestLog{
			ID:        uuid.New(),
			RequestID: id,
			OldStatus: status,
			Action:    model.RequestActionDelete,
			ChangedBy: actor,
			ChangedAt: time.Now(),
		})
	})
}

func (r *requestRepository) ListLogs(ctx context.Context, limit int) ([]*model.RequestLog, error) {
	var logs []*model.RequestLog
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, request_id, old_status, new_status, action, changed_by, changed_at
		FROM request_logs
		ORDER BY changed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list request logs: %w", err)
	}
	return logs, nil
}
