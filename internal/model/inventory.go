package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type InventoryAction string

const (
	InventorySet    InventoryAction = "SET"
	InventoryAdd    InventoryAction = "ADD"
	InventoryRemove InventoryAction = "REMOVE"
)

// ParseInventoryAction accepts set/add/remove in any case.
func ParseInventoryAction(s string) (InventoryAction, error) {
	switch a := InventoryAction(strings.ToUpper(strings.TrimSpace(s))); a {
	case InventorySet, InventoryAdd, InventoryRemove:
		return a, nil
	}
	return "", fmt.Errorf("unknown inventory action %q", s)
}

type Inventory struct {
	BloodType     string     `json:"blood_type" db:"blood_type"`
	Quantity      int        `json:"quantity" db:"quantity"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	LastUpdatedBy *uuid.UUID `json:"last_updated_by,omitempty" db:"last_updated_by"`
	LowStock      bool       `json:"low_stock" db:"-"`
}

type InventoryLog struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	BloodType   string          `json:"blood_type" db:"blood_type"`
	OldQuantity int             `json:"old_quantity" db:"old_quantity"`
	NewQuantity int             `json:"new_quantity" db:"new_quantity"`
	Action      InventoryAction `json:"action" db:"action"`
	ChangedBy   *uuid.UUID      `json:"changed_by,omitempty" db:"changed_by"`
	ChangedAt   time.Time       `json:"changed_at" db:"changed_at"`
}

// ApplyChange computes the quantity that results from applying action with
// amount to old. Quantities never go below zero and negative amounts count
// as zero.
func ApplyChange(old int, action InventoryAction, amount int) (int, error) {
	if amount < 0 {
		amount = 0
	}
	if old < 0 {
		old = 0
	}

	switch action {
	case InventorySet:
		return amount, nil
	case InventoryAdd:
		return old + amount, nil
	case InventoryRemove:
		if amount > old {
			return 0, nil
		}
		return old - amount, nil
	}
	return old, fmt.Errorf("unknown inventory action %q", action)
}

// IsLowStock reports whether quantity is below threshold units.
func IsLowStock(quantity, threshold int) bool {
	return quantity < threshold
}

type InventoryChangeRequest struct {
	BloodType string `json:"blood_type" form:"blood_type" binding:"required,bloodtype"`
	Action    string `json:"action" form:"action" binding:"required,oneof=set add remove SET ADD REMOVE"`
	Amount    *int   `json:"amount" form:"amount" binding:"required,min=0"`
}

type InventoryUpdateRequest struct {
	BloodType string `json:"blood_type" form:"blood_type" binding:"required,bloodtype"`
	Quantity  *int   `json:"quantity" form:"quantity" binding:"required,min=0"`
}
