package repository

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// SalesSummaryRepository puerto del caché materializado de ventas por producto.
// Clear y Populate deben ejecutarse en la misma transacción para que el rebuild sea atómico.
type SalesSummaryRepository interface {
	Clear(ctx context.Context) error
	// Populate inserta una fila por producto con al menos una venta y devuelve cuántas insertó.
	Populate(ctx context.Context) (int64, error)
	List(ctx context.Context, limit int, ascending bool) ([]*entity.SalesSummaryEntry, error)
}
