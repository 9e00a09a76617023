package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const reportColumns = `r.id, r.event_id, r.total_donors, r.blood_units_collected, r.organizer_notes, r.generated_date`

type reportRepository struct {
	*BaseRepository
}

func NewReportRepository(base *BaseRepository) repository.ReportRepository {
	return &reportRepository{BaseRepository: base}
}

func (r *reportRepository) Create(ctx context.Context, report *model.EventReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.GeneratedDate = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO event_reports (id, event_id, total_donors, blood_units_collected, organizer_notes, generated_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		report.ID, report.EventID, report.TotalDonors, report.BloodUnitsCollected, report.OrganizerNotes, report.GeneratedDate,
	)
	if err != nil {
		return wrap("create report", err)
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id uuid.UUID) (*model.EventReport, error) {
	var report model.EventReport
	if err := r.db.GetContext(ctx, &report, `SELECT `+reportColumns+` FROM event_reports r WHERE r.id = $1`, id); err != nil {
		return nil, wrap("get report", err)
	}
	return &report, nil
}

func (r *reportRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*model.EventReport, error) {
	var reports []*model.EventReport
	err := r.db.SelectContext(ctx, &reports, `
		SELECT `+reportColumns+`
		FROM event_reports r
		JOIN events e ON e.id = r.event_id
		WHERE e.organizer_id = $1
		ORDER BY r.generated_date DESC`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return checkAffected(result, "delete report")
}
