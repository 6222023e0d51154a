package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
)

func TestTxRunner_Run_CommitYRollback(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE productos SET cantidad`).
			WithArgs(int64(1), 5).
			WillReturnRows(pgxmock.NewRows([]string{"cantidad"}).AddRow(15))
		mock.ExpectCommit()

		err := NewTxRunner(mock).Run(context.Background(), func(_ repository.UserRepository, p repository.ProductRepository, _ repository.SaleRepository, _ repository.InventoryMovementRepository) error {
			_, err := p.AdjustQuantity(context.Background(), 1, 5)
			return err
		})
		require.NoError(t, err)
		expectationsMet(t, mock)
	})

	t.Run("rollback ante error de negocio", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE productos SET cantidad`).
			WithArgs(int64(1), -50).
			WillReturnRows(pgxmock.NewRows([]string{"cantidad"}))
		mock.ExpectRollback()

		err := NewTxRunner(mock).Run(context.Background(), func(_ repository.UserRepository, p repository.ProductRepository, _ repository.SaleRepository, _ repository.InventoryMovementRepository) error {
			_, err := p.AdjustQuantity(context.Background(), 1, -50)
			return err
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		expectationsMet(t, mock)
	})

	t.Run("begin falla", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := NewTxRunner(mock).Run(context.Background(), func(repository.UserRepository, repository.ProductRepository, repository.SaleRepository, repository.InventoryMovementRepository) error {
			t.Fatal("fn no debe ejecutarse")
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrStorage)
		expectationsMet(t, mock)
	})
}

// Un fallo entre el DELETE y el INSERT deshace todo: el caché conserva las filas previas.
func TestRebuild_FalloEnInsertHaceRollback(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE resumen_ventas_producto IN EXCLUSIVE MODE`).
		WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectExec(`DELETE FROM resumen_ventas_producto`).
		WillReturnResult(pgxmock.NewResult("DELETE", 12))
	mock.ExpectExec(`INSERT INTO resumen_ventas_producto`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	uc := summary.NewUseCase(NewTxRunner(mock), NewSalesSummaryRepository(mock), logger.Nop())
	res, err := uc.Rebuild(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrStorage)
	expectationsMet(t, mock)
}

func TestRebuild_Commit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE`).WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectExec(`DELETE FROM resumen_ventas_producto`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`INSERT INTO resumen_ventas_producto`).WillReturnResult(pgxmock.NewResult("INSERT", 4))
	mock.ExpectCommit()

	uc := summary.NewUseCase(NewTxRunner(mock), NewSalesSummaryRepository(mock), logger.Nop())
	res, err := uc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Rows)
	expectationsMet(t, mock)
}
