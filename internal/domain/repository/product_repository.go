package repository

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// ProductFilter filtros de búsqueda de productos.
type ProductFilter struct {
	Query      string // coincide con nombre, categoría o marca (ILIKE)
	OnlyActive bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update no modifica la cantidad: el stock cambia únicamente vía AdjustQuantity.
	Update(ctx context.Context, product *entity.Product) error
	// AdjustQuantity suma delta a la cantidad; devuelve ErrInsufficientStock si quedaría negativa.
	AdjustQuantity(ctx context.Context, id int64, delta int) (int, error)
	SetImageURL(ctx context.Context, id int64, url string) error
	Search(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Deactivate(ctx context.Context, id int64) error
}
