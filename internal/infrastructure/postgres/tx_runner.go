package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bar-inventario-api/internal/application/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ summary.TxRunner = (*TxRunner)(nil)

// TxBeginner lo implementan *pgxpool.Pool y el pool de pgxmock.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (read committed).
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con los repositorios del ledger atados a una misma tx.
// Cualquier error (o panic) de fn provoca Rollback; si no, Commit.
func (r *TxRunner) Run(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	return r.within(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewProductRepository(tx), NewSaleRepository(tx), NewInventoryMovementRepository(tx))
	})
}

// RunSummary ejecuta fn con el repositorio del caché de resumen atado a una tx.
func (r *TxRunner) RunSummary(ctx context.Context, fn func(summaryRepo repository.SalesSummaryRepository) error) error {
	return r.within(ctx, func(tx pgx.Tx) error {
		return fn(NewSalesSummaryRepository(tx))
	})
}

func (r *TxRunner) within(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorage, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrStorage, err)
	}
	return nil
}
