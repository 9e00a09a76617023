package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *BaseRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })

	return sqlxDB, mock, NewBaseRepository(sqlxDB)
}

func TestInventoryApply_RemoveWritesLogInSameTx(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewInventoryRepository(base)
	actor := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO inventory (blood_type, quantity)`)).
		WithArgs("O+").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT quantity FROM inventory WHERE blood_type = $1 FOR UPDATE`)).
		WithArgs("O+").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1200))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory SET quantity`)).
		WithArgs(900, sqlmock.AnyArg(), sqlmock.AnyArg(), "O+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO inventory_logs`)).
		WithArgs(sqlmock.AnyArg(), "O+", 1200, 900, model.InventoryRemove, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry, err := repo.Apply(context.Background(), "O+", model.InventoryRemove, 300, &actor)
	require.NoError(t, err)

	assert.Equal(t, 1200, entry.OldQuantity)
	assert.Equal(t, 900, entry.NewQuantity)
	assert.Equal(t, model.InventoryRemove, entry.Action)
	assert.Equal(t, actor, *entry.ChangedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryApply_LogFailureRollsBack(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewInventoryRepository(base)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO inventory (blood_type, quantity)`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE inventory SET quantity`)).
		WithArgs(5, sqlmock.AnyArg(), sqlmock.AnyArg(), "AB-").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO inventory_logs`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Apply(context.Background(), "AB-", model.InventoryAdd, 5, nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewRequestRepository(base)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE urgent_requests`)).
		WithArgs(model.RequestFulfilled, sqlmock.AnyArg(), sqlmock.AnyArg(), id, model.RequestPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.UpdateStatus(context.Background(), id, model.RequestPending, model.RequestFulfilled, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestUpdateStatus_Success(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewRequestRepository(base)
	id := uuid.New()
	actor := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE urgent_requests`)).
		WithArgs(model.RequestFulfilled, sqlmock.AnyArg(), sqlmock.AnyArg(), id, model.RequestPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO request_logs`)).
		WithArgs(sqlmock.AnyArg(), id, "Pending", "Fulfilled", model.RequestActionStatus, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), id, model.RequestPending, model.RequestFulfilled, &actor)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationCreate_DuplicateMapsToSentinel(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewRegistrationRepository(base)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO registrations`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &model.Registration{DonorID: uuid.New(), EventID: uuid.New()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrDuplicate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationMarkRead_NotOwned(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewNotificationRepository(base)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`)).
		WithArgs(id, owner).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), id, owner)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDonorListEligible(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewDonorRepository(base)
	userID := uuid.New()
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "donor_name", "email", "blood_type", "age", "eligibility_status",
		"disqualification_reason", "medical_history", "last_donation_date", "created_at", "updated_at",
	}).AddRow(uuid.New().String(), userID.String(), "Mary Johnson", "mary@example.com", "O-", 28, true, "", "", nil, now, now)

	mock.ExpectQuery(`WHERE d.eligibility_status = TRUE ORDER BY d.created_at`).
		WillReturnRows(rows)

	donors, err := repo.ListEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "Mary Johnson", donors[0].DonorName)
	assert.Equal(t, userID, *donors[0].UserID)
	assert.Nil(t, donors[0].LastDonationDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGet_NotFound(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewUserRepository(base)

	mock.ExpectQuery(`FROM users WHERE id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationMarkAttended_NoShowIsConflict(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewRegistrationRepository(base)
	eventID, donorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM registrations WHERE event_id = $1 AND donor_id = $2 FOR UPDATE`)).
		WithArgs(eventID, donorID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(model.RegistrationNoShow)))
	mock.ExpectRollback()

	_, err := repo.MarkAttended(context.Background(), eventID, donorID)
	assert.True(t, errors.Is(err, repository.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationMarkAttended_OnlyMovesOpenRegistrations(t *testing.T) {
	_, mock, base := setupMockDB(t)
	repo := NewRegistrationRepository(base)
	eventID, donorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status FROM registrations`)).
		WithArgs(eventID, donorID).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(model.RegistrationConfirmed)))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO attendance`)).
		WithArgs(sqlmock.AnyArg(), eventID, donorID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`AND status IN ($4, $5)`)).
		WithArgs(model.RegistrationAttended, eventID, donorID, model.RegistrationPending, model.RegistrationConfirmed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM attendance a`)).
		WithArgs(eventID, donorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "donor_id", "donor_name", "blood_type", "check_in_time"}).
			AddRow(uuid.New().String(), eventID.String(), donorID.String(), "Mary Johnson", "O-", time.Now()))
	mock.ExpectCommit()

	att, err := repo.MarkAttended(context.Background(), eventID, donorID)
	require.NoError(t, err)
	assert.Equal(t, "Mary Johnson", att.DonorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
