// Package analytics contiene el dashboard del bar: KPIs del día y del mes en una sola respuesta.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// Reports lo implementa usecase.AnalyticsUseCase.
type Reports interface {
	SalesSummaryBetween(ctx context.Context, from, to *time.Time) (*dto.SalesSummaryDTO, error)
	TopSellers(ctx context.Context, limit int) ([]dto.ProductSalesDTO, error)
}

// DashboardUseCase combina el resumen de hoy, el del mes y el top de productos.
type DashboardUseCase struct {
	reports Reports
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reports Reports) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, now: time.Now}
}

// GetSummary lanza las tres consultas en paralelo; la primera que falle cancela las demás.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		today, month *dto.SalesSummaryDTO
		top          []dto.ProductSalesDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := uc.reports.SalesSummaryBetween(gctx, &todayStart, &todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas de hoy: %w", err)
		}
		today = res
		return nil
	})
	g.Go(func() error {
		res, err := uc.reports.SalesSummaryBetween(gctx, &monthStart, &todayEnd)
		if err != nil {
			return fmt.Errorf("dashboard: ventas del mes: %w", err)
		}
		month = res
		return nil
	})
	g.Go(func() error {
		res, err := uc.reports.TopSellers(gctx, dashboardTopProducts)
		if err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		top = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DashboardSummaryDTO{
		Today:       *today,
		Month:       *month,
		TopProducts: top,
		DateLabel:   MonthLabel(now),
	}, nil
}

// MonthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func MonthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
