package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

const inventoryColumns = `blood_type, quantity, updated_at, last_updated_by`

type inventoryRepository struct {
	*BaseRepository
}

func NewInventoryRepository(base *BaseRepository) repository.InventoryRepository {
	return &inventoryRepository{BaseRepository: base}
}

func (r *inventoryRepository) List(ctx context.Context) ([]*model.Inventory, error) {
	var items []*model.Inventory
	if err := r.db.SelectContext(ctx, &items, `SELECT `+inventoryColumns+` FROM inventory ORDER BY blood_type`); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) Get(ctx context.Context, bloodType string) (*model.Inventory, error) {
	var item model.Inventory
	if err := r.db.GetContext(ctx, &item, `SELECT `+inventoryColumns+` FROM inventory WHERE blood_type = $1`, bloodType); err != nil {
		return nil, wrap("get inventory", err)
	}
	return &item, nil
}

// Apply locks the blood type row (creating it at zero when missing), writes
// the new quantity and appends the log row in a single transaction.
func (r *inventoryRepository) Apply(ctx context.Context, bloodType string, action model.InventoryAction, amount int, actor *uuid.UUID) (*model.InventoryLog, error) {
	var entry *model.InventoryLog

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO inventory (blood_type, quantity) VALUES ($1, 0) ON CONFLICT (blood_type) DO NOTHING`,
			bloodType,
		); err != nil {
			return fmt.Errorf("failed to ensure inventory row: %w", err)
		}

		var old int
		if err := tx.GetContext(ctx, &old,
			`SELECT quantity FROM inventory WHERE blood_type = $1 FOR UPDATE`,
			bloodType,
		); err != nil {
			return wrap("lock inventory row", err)
		}

		next, err := model.ApplyChange(old, action, amount)
		if err != nil {
			return err
		}

		now := time.Now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = $1, updated_at = $2, last_updated_by = $3 WHERE blood_type = $4`,
			next, now, actor, bloodType,
		); err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}

		entry = &model.InventoryLog{
			ID:          uuid.New(),
			BloodType:   bloodType,
			OldQuantity: old,
			NewQuantity: next,
			Action:      action,
			ChangedBy:   actor,
			ChangedAt:   now,
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO inventory_logs (id, blood_type, old_quantity, new_quantity, action, changed_by, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			entry.ID, entry.BloodType, entry.OldQuantity, entry.NewQuantity, entry.Action, entry.ChangedBy, entry.ChangedAt,
		); err != nil {
			return fmt.Errorf("failed to insert inventory log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *inventoryRepository) ListLogs(ctx context.Context, limit int) ([]*model.InventoryLog, error) {
	var logs []*model.InventoryLog
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, blood_type, old_quantity, new_quantity, action, changed_by, changed_at
		FROM inventory_logs
		ORDER BY changed_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory logs: %w", err)
	}
	return logs, nil
}
