package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/application/summary"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
	"github.com/jhoicas/bar-inventario-api/pkg/logger"
	"github.com/jhoicas/bar-inventario-api/pkg/telemetry"
)

const reportsInstrumentation = "bar-inventario/reportes"

// AnalyticsUseCase reportes en vivo sobre el ledger: resumen de ventas, ranking y conciliación.
// Solo lectura; cada consulta corre con el timeout configurado.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	log           *logger.Logger
	timeout       time.Duration
}

// NewAnalyticsUseCase construye el caso de uso. timeout <= 0 no impone tope propio.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository, log *logger.Logger, timeout time.Duration) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo, log: log.Component("reportes"), timeout: timeout}
}

func (uc *AnalyticsUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// SalesSummary totales de ventas entre desde y hasta (inclusivos, opcionales).
func (uc *AnalyticsUseCase) SalesSummary(ctx context.Context, req dto.SalesSummaryRequest) (*dto.SalesSummaryDTO, error) {
	from, to, err := ParsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return uc.SalesSummaryBetween(ctx, from, to)
}

// SalesSummaryBetween igual que SalesSummary con límites ya resueltos.
func (uc *AnalyticsUseCase) SalesSummaryBetween(ctx context.Context, from, to *time.Time) (out *dto.SalesSummaryDTO, err error) {
	ctx, span := otel.Tracer(reportsInstrumentation).Start(ctx, "reportes.SalesSummary")
	defer func() { telemetry.EndSpan(span, err) }()
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	res, err := uc.analyticsRepo.GetSalesSummary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("resumen de ventas: %w", err)
	}
	span.SetAttributes(attribute.Int64("ventas", res.Count))
	return &dto.SalesSummaryDTO{
		From:          from,
		To:            to,
		TotalSales:    res.Count,
		UnitsSold:     res.Units,
		TotalAmount:   res.Amount.Round(2),
		AverageTicket: inventory.AverageTicket(res.Amount, res.Count),
	}, nil
}

// TopSellers productos activos con más unidades vendidas (incluye los que no tienen ventas, con 0).
func (uc *AnalyticsUseCase) TopSellers(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error) {
	return uc.ranking(ctx, limit, false)
}

// BottomSellers productos activos con menos unidades vendidas; los no vendidos aparecen primero.
func (uc *AnalyticsUseCase) BottomSellers(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error) {
	return uc.ranking(ctx, limit, true)
}

func (uc *AnalyticsUseCase) ranking(ctx context.Context, limit int, ascending bool) (out []dto.ProductSalesDTO, err error) {
	ctx, span := otel.Tracer(reportsInstrumentation).Start(ctx, "reportes.Ranking")
	span.SetAttributes(attribute.Bool("ascendente", ascending))
	defer func() { telemetry.EndSpan(span, err) }()

	limit, err = summary.NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	rows, err := uc.analyticsRepo.GetProductRanking(ctx, limit, ascending)
	if err != nil {
		return nil, fmt.Errorf("ranking de productos: %w", err)
	}
	out = make([]dto.ProductSalesDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductSalesDTO{ProductID: r.ProductID, Name: r.Name, TotalSold: r.TotalSold})
	}
	return out, nil
}

// StockReconciliation compara el stock registrado con el derivado de movimientos para cada producto.
// Las diferencias se reportan y se registran como warning; nunca se corrigen.
func (uc *AnalyticsUseCase) StockReconciliation(ctx context.Context) (out []dto.StockReconciliationDTO, err error) {
	ctx, span := otel.Tracer(reportsInstrumentation).Start(ctx, "reportes.StockReconciliation")
	defer func() { telemetry.EndSpan(span, err) }()
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	rows, err := uc.analyticsRepo.GetStockReconciliation(ctx)
	if err != nil {
		return nil, fmt.Errorf("conciliación de stock: %w", err)
	}
	out = make([]dto.StockReconciliationDTO, 0, len(rows))
	drifted := 0
	for _, r := range rows {
		diff := inventory.Drift(r.StockActual, r.StockPorMovimientos)
		if diff != 0 {
			drifted++
			uc.log.Warn().
				Int64("id_producto", r.ProductID).
				Str("nombre", r.Name).
				Int64("stock_actual", r.StockActual).
				Int64("stock_por_movimientos", r.StockPorMovimientos).
				Int64("diferencia", diff).
				Msg("stock no cuadra con los movimientos")
		}
		out = append(out, dto.StockReconciliationDTO{
			ProductID:           r.ProductID,
			Name:                r.Name,
			StockActual:         r.StockActual,
			StockPorMovimientos: r.StockPorMovimientos,
			Diferencia:          diff,
		})
	}
	span.SetAttributes(attribute.Int("productos", len(out)), attribute.Int("con_diferencia", drifted))
	return out, nil
}

// ParsePeriod interpreta desde/hasta como RFC3339 o YYYY-MM-DD; vacío = sin límite.
// Una fecha sin hora en hasta cubre el día completo.
func ParsePeriod(fromStr, toStr string) (from, to *time.Time, err error) {
	if from, err = parseBound(fromStr, false); err != nil {
		return nil, nil, fmt.Errorf("desde inválido: %w", err)
	}
	if to, err = parseBound(toStr, true); err != nil {
		return nil, nil, fmt.Errorf("hasta inválido: %w", err)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("desde no puede ser posterior a hasta: %w", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
