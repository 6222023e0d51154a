package repository

import (
	"context"
	"time"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas. Los límites de fecha son inclusivos.
type SaleFilter struct {
	From       *time.Time
	To         *time.Time
	ProductID  *int64
	UserID     *int64
	OnlyActive bool // solo ventas de productos y usuarios activos
	Limit      int
	Offset     int
}

// SaleRepository puerto de persistencia de ventas. Solo inserción y lectura: el ledger es append-only.
type SaleRepository interface {
	// Create persiste la venta y completa ID y SoldAt.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Sale, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
}
