package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const donorSelect = `
	SELECT d.id, d.user_id, d.donor_name, COALESCE(u.email, '') AS email, d.blood_type, d.age,
		d.eligibility_status, d.disqualification_reason, d.medical_history, d.last_donation_date,
		d.created_at, d.updated_at
	FROM donors d
	LEFT JOIN users u ON u.id = d.user_id`

type donorRepository struct {
	*BaseRepository
}

func NewDonorRepository(base *BaseRepository) repository.DonorRepository {
	return &donorRepository{BaseRepository: base}
}

func (r *donorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Donor, error) {
	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, donorSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, wrap("get donor", err)
	}
	return &donor, nil
}

func (r *donorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Donor, error) {
	var donor model.Donor
	if err := r.db.GetContext(ctx, &donor, donorSelect+` WHERE d.user_id = $1`, userID); err != nil {
		return nil, wrap("get donor by user", err)
	}
	return &donor, nil
}

func (r *donorRepository) List(ctx context.Context) ([]*model.Donor, error) {
	var donors []*model.Donor
	if err := r.db.SelectContext(ctx, &donors, donorSelect+` ORDER BY d.donor_name`); err != nil {
		return nil, fmt.Errorf("failed to list donors: %w", err)
	}
	return donors, nil
}

func (r *donorRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM donors`); err != nil {
		return 0, fmt.Errorf("failed to count donors: %w", err)
	}
	return n, nil
}

func (r *donorRepository) Update(ctx context.Context, donor *model.Donor) error {
	donor.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE donors
		SET donor_name = $1, blood_type = $2, age = $3, last_donation_date = $4, updated_at = $5
		WHERE id = $6`,
		donor.DonorName, donor.BloodType, donor.Age, donor.LastDonationDate, donor.UpdatedAt, donor.ID,
	)
	if err != nil {
		return wrap("update donor", err)
	}
	return checkAffected(result, "update donor")
}

// SetEligibility writes the flag and reason together.
func (r *donorRepository) SetEligibility(ctx context.Context, id uuid.UUID, eligible bool, reason string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE donors
		SET eligibility_status = $1, disqualification_reason = $2, updated_at = $3
		WHERE id = $4`,
		eligible, reason, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set donor eligibility: %w", err)
	}
	return checkAffected(result, "set donor eligibility")
}

func (r *donorRepository) UpdateMedicalHistory(ctx context.Context, id uuid.UUID, history string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE donors SET medical_history = $1, updated_at = $2 WHERE id = $3`,
		history, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical history: %w", err)
	}
	return checkAffected(result, "update medical history")
}

func (r *donorRepository) ListEligible(ctx context.Context) ([]*model.Donor, error) {
	var donors []*model.Donor
	err := r.db.SelectContext(ctx, &donors,
		donorSelect+` WHERE d.eligibility_status = TRUE ORDER BY d.created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible donors: %w", err)
	}
	return donors, nil
}
