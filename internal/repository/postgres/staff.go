package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const (
	staffColumns     = `id, user_id, staff_name, hospital_name, created_at`
	organizerColumns = `id, user_id, organizer_name, created_at`
)

type staffRepository struct {
	*BaseRepository
}

func NewStaffRepository(base *BaseRepository) repository.StaffRepository {
	return &staffRepository{BaseRepository: base}
}

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	var s model.Staff
	if err := r.db.GetContext(ctx, &s, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id); err != nil {
		return nil, wrap("get staff", err)
	}
	return &s, nil
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Staff, error) {
	var s model.Staff
	if err := r.db.GetContext(ctx, &s, `SELECT `+staffColumns+` FROM staff WHERE user_id = $1`, userID); err != nil {
		return nil, wrap("get staff by user", err)
	}
	return &s, nil
}

type organizerRepository struct {
	*BaseRepository
}

func NewOrganizerRepository(base *BaseRepository) repository.OrganizerRepository {
	return &organizerRepository{BaseRepository: base}
}

func (r *organizerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Organizer, error) {
	var o model.Organizer
	if err := r.db.GetContext(ctx, &o, `SELECT `+organizerColumns+` FROM organizers WHERE user_id = $1`, userID); err != nil {
		return nil, wrap("get organizer by user", err)
	}
	return &o, nil
}
