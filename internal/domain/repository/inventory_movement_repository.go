package repository

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductID *int64
	Limit     int
	Offset    int
}

// InventoryMovementRepository puerto de persistencia del ledger de movimientos (append-only).
type InventoryMovementRepository interface {
	// Create persiste el movimiento y completa ID y Date.
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.InventoryMovement, error)
}
