package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []model.LowStockEvent
}

func (p *capturePublisher) Publish(_ context.Context, _ string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := message.(model.LowStockEvent); ok {
		p.events = append(p.events, ev)
	}
	return nil
}

func TestApply_RemoveWritesOneLog(t *testing.T) {
	store := memory.NewStore()
	store.PutInventory("O+", 1200)
	svc := NewService(store.Inventory(), Options{})
	actor := uuid.New()

	entry, err := svc.Apply(context.Background(), "O+", "remove", 300, &actor)
	require.NoError(t, err)
	assert.Equal(t, 900, entry.NewQuantity)

	logs := store.InventoryLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, 1200, logs[0].OldQuantity)
	assert.Equal(t, 900, logs[0].NewQuantity)
	assert.Equal(t, model.InventoryRemove, logs[0].Action)
	assert.Equal(t, actor, *logs[0].ChangedBy)
}

func TestApply_MissingRowStartsAtZero(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Inventory(), Options{})

	entry, err := svc.Apply(context.Background(), "ab negative", "ADD", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, "AB-", entry.BloodType)
	assert.Equal(t, 0, entry.OldQuantity)
	assert.Equal(t, 4, entry.NewQuantity)
}

func TestApply_Validation(t *testing.T) {
	svc := NewService(memory.NewStore().Inventory(), Options{})

	_, err := svc.Apply(context.Background(), "Z+", "add", 1, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.Apply(context.Background(), "A+", "drain", 1, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.Apply(context.Background(), "A+", "add", -1, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestList_AllTypesWithPlaceholders(t *testing.T) {
	store := memory.NewStore()
	store.PutInventory("O+", 25)
	store.PutInventory("A-", 1)
	svc := NewService(store.Inventory(), Options{})

	rows, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 8)

	got := map[string]*model.Inventory{}
	for _, r := range rows {
		got[r.BloodType] = r
	}
	assert.Equal(t, 25, got["O+"].Quantity)
	assert.False(t, got["O+"].LowStock)
	assert.True(t, got["A-"].LowStock)
	assert.Equal(t, 0, got["B+"].Quantity)
	assert.True(t, got["B+"].LowStock)
}

func TestApply_PublishesWhenCrossingThreshold(t *testing.T) {
	store := memory.NewStore()
	store.PutInventory("O-", 5)
	pub := &capturePublisher{}
	svc := NewService(store.Inventory(), Options{LowStockThreshold: 3, Publisher: pub, LowStockChannel: "inventory.low_stock"})

	_, err := svc.Apply(context.Background(), "O-", "remove", 1, nil)
	require.NoError(t, err)
	assert.Empty(t, pub.events)

	_, err = svc.Apply(context.Background(), "O-", "remove", 3, nil)
	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "O-", pub.events[0].BloodType)
	assert.Equal(t, 0, pub.events[0].Quantity)
	assert.Equal(t, 3, pub.events[0].Threshold)

	_, err = svc.Apply(context.Background(), "O-", "add", 1, nil)
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestCheckLowStock(t *testing.T) {
	store := memory.NewStore()
	for _, bt := range model.AllBloodTypes {
		store.PutInventory(bt.String(), 15)
	}
	store.PutInventory("B-", 1)
	pub := &capturePublisher{}
	svc := NewService(store.Inventory(), Options{Publisher: pub, LowStockChannel: "inventory.low_stock"})

	low, err := svc.CheckLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "B-", low[0].BloodType)
	assert.Len(t, pub.events, 1)
}
