// Package summary mantiene el caché materializado de ventas por producto (más y menos vendidos).
package summary

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
	"github.com/jhoicas/bar-inventario-api/pkg/telemetry"
)

const (
	instrumentationName = "bar-inventario/resumen"

	DefaultLimit = 10
	MaxLimit     = 100
)

// UseCase reconstruye y lee el caché. El caché puede quedar desactualizado entre rebuilds:
// las ventas nuevas no lo tocan.
type UseCase struct {
	txRunner TxRunner
	repo     repository.SalesSummaryRepository
	log      *logger.Logger
	now      func() time.Time

	rebuilds metric.Int64Counter
}

// NewUseCase construye el caso de uso. repo es el de lectura (pool).
func NewUseCase(txRunner TxRunner, repo repository.SalesSummaryRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		repo:     repo,
		log:      log.Component("resumen"),
		now:      time.Now,
		rebuilds: telemetry.Counter(instrumentationName, "resumen_rebuilds", "reconstrucciones del caché de ventas"),
	}
}

// Rebuild reemplaza el contenido del caché en una sola transacción.
// Los lectores ven el estado anterior completo o el nuevo completo, nunca uno vacío o parcial.
// Dos rebuilds concurrentes se serializan por el LOCK de la tabla.
func (uc *UseCase) Rebuild(ctx context.Context) (result *dto.RebuildResultDTO, err error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "resumen.Rebuild")
	defer func() { telemetry.EndSpan(span, err) }()

	start := uc.now()
	var rows int64
	err = uc.txRunner.RunSummary(ctx, func(repo repository.SalesSummaryRepository) error {
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		n, err := repo.Populate(ctx)
		if err != nil {
			return err
		}
		rows = n
		return nil
	})
	if err != nil {
		uc.rebuilds.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", false)))
		uc.log.Error().Err(err).Msg("rebuild del resumen falló; se conserva el contenido anterior")
		return nil, err
	}

	elapsed := uc.now().Sub(start)
	uc.rebuilds.Add(ctx, 1, metric.WithAttributes(attribute.Bool("ok", true)))
	span.SetAttributes(attribute.Int64("resumen.filas", rows))
	uc.log.Info().Int64("filas", rows).Dur("duracion", elapsed).Msg("resumen de ventas reconstruido")
	return &dto.RebuildResultDTO{Rows: rows, RebuiltAt: start, DurationMS: elapsed.Milliseconds()}, nil
}

// MostSold productos del caché de mayor a menor total vendido.
func (uc *UseCase) MostSold(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error) {
	return uc.read(ctx, limit, false)
}

// LeastSold productos del caché de menor a mayor total vendido.
// Solo contiene productos con al menos una venta al momento del último rebuild.
func (uc *UseCase) LeastSold(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error) {
	return uc.read(ctx, limit, true)
}

func (uc *UseCase) read(ctx context.Context, limit int, ascending bool) ([]dto.ProductSalesDTO, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	entries, err := uc.repo.List(ctx, limit, ascending)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductSalesDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, toProductSales(e))
	}
	return out, nil
}

// NormalizeLimit 0 → DefaultLimit; fuera de [1, MaxLimit] → ErrInvalidInput.
func NormalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultLimit, nil
	}
	if limit < 1 || limit > MaxLimit {
		return 0, domain.ErrInvalidInput
	}
	return limit, nil
}

func toProductSales(e *entity.SalesSummaryEntry) dto.ProductSalesDTO {
	updated := e.UpdatedAt
	return dto.ProductSalesDTO{
		ProductID: e.ProductID,
		Name:      e.Name,
		TotalSold: e.TotalSold,
		UpdatedAt: &updated,
	}
}
