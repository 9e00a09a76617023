package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

// StockChecker scans inventory and publishes an alert for every blood type
// under the threshold.
type StockChecker interface {
	CheckLowStock(ctx context.Context) ([]*model.Inventory, error)
}

type LowStockMonitor struct {
	stock StockChecker
}

func NewLowStockMonitor(stock StockChecker) *LowStockMonitor {
	return &LowStockMonitor{stock: stock}
}

func (m *LowStockMonitor) Name() string {
	return "low_stock_monitor"
}

func (m *LowStockMonitor) Run(ctx context.Context) error {
	low, err := m.stock.CheckLowStock(ctx)
	if err != nil {
		return fmt.Errorf("failed to check inventory: %w", err)
	}

	for _, row := range low {
		log.Warn().
			Str("blood_type", row.BloodType).
			Int("quantity", row.Quantity).
			Msg("blood type below low stock threshold")
	}
	return nil
}
