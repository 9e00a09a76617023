package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const userColumns = `id, full_name, email, password_hash, role, status, created_at, updated_at`

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(base *BaseRepository) repository.UserRepository {
	return &userRepository{BaseRepository: base}
}

// CreateAccount inserts the user and its role profile atomically.
func (r *userRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	user := account.User
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, full_name, email, password_hash, role, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			user.ID, user.FullName, user.Email, user.PasswordHash,
			user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return wrap("create user", err)
		}

		switch {
		case account.Donor != nil:
			d := account.Donor
			if d.ID == uuid.Nil {
				d.ID = uuid.New()
			}
			d.UserID = &user.ID
			d.Email = user.Email
			d.CreatedAt = now
			d.UpdatedAt = now
			_, err = tx.ExecContext(ctx, `
				INSERT INTO donors (id, user_id, donor_name, blood_type, age, eligibility_status,
					disqualification_reason, medical_history, last_donation_date, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				d.ID, d.UserID, d.DonorName, d.BloodType, d.Age, d.EligibilityStatus,
				d.DisqualificationReason, d.MedicalHistory, d.LastDonationDate, d.CreatedAt, d.UpdatedAt,
			)
			if err != nil {
				return wrap("create donor profile", err)
			}
		case account.Staff != nil:
			s := account.Staff
			if s.ID == uuid.Nil {
				s.ID = uuid.New()
			}
			s.UserID = user.ID
			s.CreatedAt = now
			_, err = tx.ExecContext(ctx, `
				INSERT INTO staff (id, user_id, staff_name, hospital_name, created_at)
				VALUES ($1, $2, $3, $4, $5)`,
				s.ID, s.UserID, s.StaffName, s.HospitalName, s.CreatedAt,
			)
			if err != nil {
				return wrap("create staff profile", err)
			}
		case account.Organizer != nil:
			o := account.Organizer
			if o.ID == uuid.Nil {
				o.ID = uuid.New()
			}
			o.UserID = user.ID
			o.CreatedAt = now
			_, err = tx.ExecContext(ctx, `
				INSERT INTO organizers (id, user_id, organizer_name, created_at)
				VALUES ($1, $2, $3, $4)`,
				o.ID, o.UserID, o.OrganizerName, o.CreatedAt,
			)
			if err != nil {
				return wrap("create organizer profile", err)
			}
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return nil, wrap("get user by email", err)
	}
	return &user, nil
}

// GetAccount loads the user with whichever role profile it owns.
func (r *userRepository) GetAccount(ctx context.Context, userID uuid.UUID) (*model.Account, error) {
	user, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	account := &model.Account{User: user}

	switch user.Role {
	case model.RoleDonor:
		var d model.Donor
		err = r.db.GetContext(ctx, &d, donorSelect+` WHERE d.user_id = $1`, userID)
		if err == nil {
			account.Donor = &d
		}
	case model.RoleStaff:
		var s model.Staff
		err = r.db.GetContext(ctx, &s, `SELECT `+staffColumns+` FROM staff WHERE user_id = $1`, userID)
		if err == nil {
			account.Staff = &s
		}
	case model.RoleOrganizer:
		var o model.Organizer
		err = r.db.GetContext(ctx, &o, `SELECT `+organizerColumns+` FROM organizers WHERE user_id = $1`, userID)
		if err == nil {
			account.Organizer = &o
		}
	}

	if err != nil && !errors.Is(mapError(err), repository.ErrNotFound) {
		return nil, wrap("get account profile", err)
	}
	return account, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET full_name = $1, email = $2, status = $3, password_hash = $4, updated_at = $5
		WHERE id = $6`,
		user.FullName, user.Email, user.Status, user.PasswordHash, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return wrap("update user", err)
	}
	return checkAffected(result, "update user")
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return checkAffected(result, "update user status")
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, "delete user")
}
