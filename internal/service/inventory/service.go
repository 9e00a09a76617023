package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

const DefaultLowStockThreshold = 2

type Service struct {
	repo      repository.InventoryRepository
	threshold int
	publisher messaging.Publisher
	channel   string
	metrics   *metrics.Metrics
}

type Options struct {
	LowStockThreshold int
	Publisher         messaging.Publisher
	LowStockChannel   string
	Metrics           *metrics.Metrics
}

func NewService(repo repository.InventoryRepository, opts Options) *Service {
	threshold := opts.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = messaging.NopBroker{}
	}
	return &Service{
		repo:      repo,
		threshold: threshold,
		publisher: publisher,
		channel:   opts.LowStockChannel,
		metrics:   opts.Metrics,
	}
}

func (s *Service) Threshold() int {
	return s.threshold
}

// List returns one row per blood type in display order. Types that were
// never stocked appear with quantity 0.
func (s *Service) List(ctx context.Context) ([]*model.Inventory, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	byType := make(map[model.BloodType]*model.Inventory, len(rows))
	for _, row := range rows {
		if bt, ok := model.NormalizeBloodType(row.BloodType); ok {
			byType[bt] = row
		}
	}

	out := make([]*model.Inventory, 0, len(model.AllBloodTypes))
	for _, bt := range model.AllBloodTypes {
		row, ok := byType[bt]
		if !ok {
			row = &model.Inventory{BloodType: bt.String()}
		}
		row.LowStock = model.IsLowStock(row.Quantity, s.threshold)
		out = append(out, row)
	}
	return out, nil
}

// LowStock returns the blood types below the threshold.
func (s *Service) LowStock(ctx context.Context) ([]*model.Inventory, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]*model.Inventory, 0)
	for _, row := range all {
		if row.LowStock {
			low = append(low, row)
		}
	}
	return low, nil
}

// Apply changes the stock of one blood type and records the change.
func (s *Service) Apply(ctx context.Context, bloodType, action string, amount int, actor *uuid.UUID) (*model.InventoryLog, error) {
	bt, ok := model.NormalizeBloodType(bloodType)
	if !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid blood type %q", bloodType), nil)
	}
	act, err := model.ParseInventoryAction(action)
	if err != nil {
		return nil, apperrors.BadRequest("action must be one of set, add or remove", err)
	}
	if amount < 0 {
		return nil, apperrors.BadRequest("amount must not be negative", nil)
	}

	entry, err := s.repo.Apply(ctx, bt.String(), act, amount, actor)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.InventoryChanged(string(act), entry.BloodType, entry.NewQuantity)
	log.Info().
		Str("blood_type", entry.BloodType).
		Str("action", string(act)).
		Int("old", entry.OldQuantity).
		Int("new", entry.NewQuantity).
		Msg("inventory updated")

	if model.IsLowStock(entry.NewQuantity, s.threshold) && !model.IsLowStock(entry.OldQuantity, s.threshold) {
		s.alert(ctx, entry.BloodType, entry.NewQuantity)
	}
	return entry, nil
}

// Set replaces the stock of one blood type.
func (s *Service) Set(ctx context.Context, bloodType string, quantity int, actor *uuid.UUID) (*model.InventoryLog, error) {
	return s.Apply(ctx, bloodType, string(model.InventorySet), quantity, actor)
}

// CheckLowStock publishes an alert for every low blood type and returns
// them. The worker runs it on a schedule.
func (s *Service) CheckLowStock(ctx context.Context) ([]*model.Inventory, error) {
	low, err := s.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SetLowStock(len(low))
	for _, row := range low {
		s.alert(ctx, row.BloodType, row.Quantity)
	}
	return low, nil
}

func (s *Service) alert(ctx context.Context, bloodType string, quantity int) {
	if s.channel == "" {
		return
	}
	event := model.LowStockEvent{
		BloodType: bloodType,
		Quantity:  quantity,
		Threshold: s.threshold,
		At:        time.Now().UTC(),
	}
	err := s.publisher.Publish(ctx, s.channel, event)
	s.metrics.Published(s.channel, err)
	if err != nil {
		log.Warn().Err(err).Str("blood_type", bloodType).Msg("failed to publish low stock alert")
	}
}
