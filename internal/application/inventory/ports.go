package inventory

import (
	"context"

	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto visible (Rollback).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
