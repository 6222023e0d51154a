package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult agregado crudo de ventas en un período.
type SalesSummaryResult struct {
	Count  int64
	Units  int64
	Amount decimal.Decimal
}

// ProductSalesResult unidades vendidas por producto (0 si nunca se vendió).
type ProductSalesResult struct {
	ProductID int64
	Name      string
	TotalSold int64
}

// StockReconciliationResult stock registrado frente al derivado de movimientos.
type StockReconciliationResult struct {
	ProductID           int64
	Name                string
	StockActual         int64
	StockPorMovimientos int64
}

// AnalyticsRepository define las consultas de lectura sobre el ledger.
// Las implementaciones son read-only y no toman bloqueos.
type AnalyticsRepository interface {
	// GetSalesSummary agrega las ventas con fecha en [from, to]; cualquiera de los límites puede ser nil.
	GetSalesSummary(ctx context.Context, from, to *time.Time) (SalesSummaryResult, error)

	// GetProductRanking ordena todos los productos por unidades vendidas (LEFT JOIN, COALESCE 0).
	// Empates por id ascendente.
	GetProductRanking(ctx context.Context, limit int, ascending bool) ([]ProductSalesResult, error)

	// GetStockReconciliation compara productos.cantidad con Σentradas − Σsalidas.
	GetStockReconciliation(ctx context.Context) ([]StockReconciliationResult, error)
}
