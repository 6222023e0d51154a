//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/bar-inventario-api/internal/application/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
	"github.com/jhoicas/bar-inventario-api/internal/infrastructure/postgres"
	"github.com/jhoicas/bar-inventario-api/pkg/config"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
)

// setupDB levanta un postgres:17-alpine, aplica las migraciones y devuelve el pool.
func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "bar",
			"POSTGRES_PASSWORD": "bar",
			"POSTGRES_DB":       "bar_inventario",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{
		DatabaseURL: fmt.Sprintf("postgres://bar:bar@%s:%s/bar_inventario?sslmode=disable", host, port.Port()),
		MaxConns:    20,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applied, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, 1, applied)
	return pool
}

type fixture struct {
	pool    *pgxpool.Pool
	ledger  *inventory.LedgerUseCase
	summary *summary.UseCase
	users   *postgres.UserRepo
	prods   *postgres.ProductRepo
}

func newFixture(t *testing.T) *fixture {
	pool := setupDB(t)
	runner := postgres.NewTxRunner(pool)
	users := postgres.NewUserRepository(pool)
	return &fixture{
		pool: pool,
		ledger: inventory.NewLedgerUseCase(runner,
			postgres.NewSaleRepository(pool), postgres.NewInventoryMovementRepository(pool), logger.Nop()),
		summary: summary.NewUseCase(runner, postgres.NewSalesSummaryRepository(pool), logger.Nop()),
		users:   users,
		prods:   postgres.NewProductRepository(pool),
	}
}

func (f *fixture) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Name: "barra", Email: email, Role: entity.RoleAdmin, Active: true}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) product(t *testing.T, name string, qty int, price string) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name: name, Category: "licores", Brand: "casa",
		Quantity: qty, Price: decimal.RequireFromString(price), Active: true,
	}
	require.NoError(t, f.prods.Create(context.Background(), p))
	return p
}

func TestIntegration_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "barra@bar.co")
	p := f.product(t, "Aguardiente", 10, "45000")

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, short int
		other     []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, short)

	got, err := f.prods.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	var ventas, salidas int
	require.NoError(t, f.pool.QueryRow(ctx,
		`SELECT count(*) FROM ventas WHERE id_producto = $1`, p.ID).Scan(&ventas))
	require.NoError(t, f.pool.QueryRow(ctx,
		`SELECT count(*) FROM inventario_movimientos WHERE id_producto = $1 AND tipo_movimiento = 'salida' AND id_venta IS NOT NULL`,
		p.ID).Scan(&salidas))
	assert.Equal(t, 10, ventas)
	assert.Equal(t, 10, salidas)
}

func TestIntegration_ReintentoIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "caja@bar.co")
	p := f.product(t, "Cerveza", 5, "8000")
	key := uuid.NewString()

	in := inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: 2, IdempotencyKey: key}
	first, err := f.ledger.RecordSale(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Replayed)
	assert.Equal(t, "16000.00", first.Sale.Total.StringFixed(2))

	again, err := f.ledger.RecordSale(ctx, in)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Sale.ID, again.Sale.ID)

	got, err := f.prods.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	in.Quantity = 1
	_, err = f.ledger.RecordSale(ctx, in)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestIntegration_MovimientoSalidaSinStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Ron", 1, "60000")

	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeSalida, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: p.ID, Type: entity.MovementTypeEntrada, Quantity: 4})
	require.NoError(t, err)

	got, err := f.prods.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestIntegration_LedgerSoloInsercion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "mesa@bar.co")
	p := f.product(t, "Vino", 3, "30000")
	_, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.pool.Exec(ctx, `UPDATE ventas SET cantidad_vendida = 2`)
	assert.Error(t, err)
	_, err = f.pool.Exec(ctx, `DELETE FROM inventario_movimientos`)
	assert.Error(t, err)
}

func TestIntegration_RebuildReemplazaElCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "admin@bar.co")
	a := f.product(t, "Aguardiente", 20, "45000")
	b := f.product(t, "Cerveza", 20, "8000")
	f.product(t, "Agua", 20, "3000") // sin ventas: no entra al caché

	sell := func(p *entity.Product, qty int) {
		_, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
	}
	sell(a, 2)
	sell(b, 5)

	res, err := f.summary.Rebuild(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Rows)

	most, err := f.summary.MostSold(ctx, 10)
	require.NoError(t, err)
	require.Len(t, most, 2)
	assert.Equal(t, b.ID, most[0].ProductID)
	assert.EqualValues(t, 5, most[0].TotalSold)

	// Las ventas nuevas no tocan el caché hasta el próximo rebuild.
	sell(a, 6)
	most, err = f.summary.MostSold(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, b.ID, most[0].ProductID)

	_, err = f.summary.Rebuild(ctx)
	require.NoError(t, err)
	least, err := f.summary.LeastSold(ctx, 1)
	require.NoError(t, err)
	require.Len(t, least, 1)
	assert.Equal(t, b.ID, least[0].ProductID)
	assert.EqualValues(t, 5, least[0].TotalSold)
}

func TestIntegration_LectoresNuncaVenCacheVacio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "turno@bar.co")
	for i := 0; i < 5; i++ {
		p := f.product(t, fmt.Sprintf("Producto %d", i), 10, "1000")
		_, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: i + 1})
		require.NoError(t, err)
	}
	_, err := f.summary.Rebuild(ctx)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			_, _ = f.summary.Rebuild(ctx)
		}
	}()

	for i := 0; i < 50; i++ {
		rows, err := f.summary.MostSold(context.Background(), 100)
		require.NoError(t, err)
		require.Len(t, rows, 5)
	}
	cancel()
	wg.Wait()
}

func TestIntegration_RankingIncluyeSinVentasEInactivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ranking@bar.co")
	a := f.product(t, "Aguardiente", 20, "45000")
	b := f.product(t, "Cerveza", 20, "8000")
	c := f.product(t, "Agua", 20, "3000")
	d := f.product(t, "Soda", 20, "4000")
	e := f.product(t, "Ron", 20, "60000")

	sell := func(p *entity.Product, qty int) {
		_, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
	}
	sell(a, 3)
	sell(b, 2)
	sell(b, 3)
	sell(e, 3)
	// Desactivado después de vender: sus ventas siguen contando, igual que en el caché.
	require.NoError(t, f.prods.Deactivate(ctx, b.ID))

	repo := postgres.NewAnalyticsRepository(f.pool)
	ids := func(rows []repository.ProductSalesResult) []int64 {
		out := make([]int64, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.ProductID)
		}
		return out
	}

	desc, err := repo.GetProductRanking(ctx, 10, false)
	require.NoError(t, err)
	require.Len(t, desc, 5)
	assert.Equal(t, []int64{b.ID, a.ID, e.ID, c.ID, d.ID}, ids(desc))
	assert.EqualValues(t, 5, desc[0].TotalSold)
	assert.Equal(t, "Cerveza", desc[0].Name)
	assert.EqualValues(t, 0, desc[3].TotalSold)
	assert.EqualValues(t, 0, desc[4].TotalSold)

	asc, err := repo.GetProductRanking(ctx, 10, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, d.ID, a.ID, e.ID, b.ID}, ids(asc))

	top, err := repo.GetProductRanking(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, b.ID, top[0].ProductID)

	_, err = f.summary.Rebuild(ctx)
	require.NoError(t, err)
	cached, err := f.summary.MostSold(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, top[0].ProductID, cached[0].ProductID)
	assert.EqualValues(t, top[0].TotalSold, cached[0].TotalSold)
}

func TestIntegration_ConciliacionDeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "conciliacion@bar.co")
	inicial := f.product(t, "Whisky", 10, "120000")
	ledger := f.product(t, "Tequila", 0, "90000")

	_, err := f.ledger.RecordMovement(ctx, inventory.MovementInput{ProductID: ledger.ID, Type: entity.MovementTypeEntrada, Quantity: 8})
	require.NoError(t, err)
	_, err = f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: ledger.ID, Quantity: 3})
	require.NoError(t, err)

	rows, err := postgres.NewAnalyticsRepository(f.pool).GetStockReconciliation(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Cantidad inicial sin movimiento de entrada: queda como deriva.
	assert.Equal(t, inicial.ID, rows[0].ProductID)
	assert.EqualValues(t, 10, rows[0].StockActual)
	assert.EqualValues(t, 0, rows[0].StockPorMovimientos)
	assert.EqualValues(t, 10, rows[0].StockActual-rows[0].StockPorMovimientos)

	assert.Equal(t, ledger.ID, rows[1].ProductID)
	assert.EqualValues(t, 5, rows[1].StockActual)
	assert.EqualValues(t, 5, rows[1].StockPorMovimientos)
}

func TestIntegration_ResumenDeVentasLimitesInclusivos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "resumen@bar.co")
	p := f.product(t, "Cerveza", 50, "8000")

	var sold []*entity.Sale
	for _, qty := range []int{1, 2, 4} {
		res, err := f.ledger.RecordSale(ctx, inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
		sold = append(sold, res.Sale)
		time.Sleep(5 * time.Millisecond)
	}
	repo := postgres.NewAnalyticsRepository(f.pool)
	at := func(ts time.Time) *time.Time { return &ts }

	all, err := repo.GetSalesSummary(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Count)
	assert.EqualValues(t, 7, all.Units)
	assert.Equal(t, "56000.00", all.Amount.StringFixed(2))

	// Ambos extremos coinciden con fecha_venta y cuentan.
	mid, err := repo.GetSalesSummary(ctx, at(sold[1].SoldAt), at(sold[2].SoldAt))
	require.NoError(t, err)
	assert.EqualValues(t, 2, mid.Count)
	assert.EqualValues(t, 6, mid.Units)

	only, err := repo.GetSalesSummary(ctx, at(sold[0].SoldAt), at(sold[0].SoldAt))
	require.NoError(t, err)
	assert.EqualValues(t, 1, only.Count)
	assert.Equal(t, "8000.00", only.Amount.StringFixed(2))

	hasta, err := repo.GetSalesSummary(ctx, nil, at(sold[1].SoldAt))
	require.NoError(t, err)
	assert.EqualValues(t, 2, hasta.Count)

	fuera, err := repo.GetSalesSummary(ctx, at(sold[2].SoldAt.Add(time.Microsecond)), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, fuera.Count)
	assert.EqualValues(t, 0, fuera.Units)
	assert.True(t, fuera.Amount.IsZero())
}

func TestIntegration_ReintentoConcurrenteConUltimaUnidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "ultima@bar.co")
	p := f.product(t, "Champaña", 1, "250000")
	in := inventory.SaleInput{UserID: u.ID, ProductID: p.ID, Quantity: 1, IdempotencyKey: uuid.NewString()}

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []*inventory.SaleResult
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.ledger.RecordSale(ctx, in)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, res)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, results, workers)
	fresh := 0
	for _, r := range results {
		assert.Equal(t, results[0].Sale.ID, r.Sale.ID)
		if !r.Replayed {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)

	got, err := f.prods.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}
