package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bar-inventario-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre ventas y movimientos.
// No abre transacciones ni toma bloqueos: cada consulta ve un snapshot read committed.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesSummary cuenta ventas, unidades y monto en [from, to]. Límites nil = abiertos.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, from, to *time.Time) (repository.SalesSummaryResult, error) {
	const query = `
	SELECT
	    COUNT(v.id_venta)                        AS total_ventas,
	    COALESCE(SUM(v.cantidad_vendida), 0)::BIGINT AS unidades_vendidas,
	    COALESCE(SUM(v.total_venta), 0)          AS monto_total
	FROM ventas v
	WHERE ($1::TIMESTAMPTZ IS NULL OR v.fecha_venta >= $1)
	  AND ($2::TIMESTAMPTZ IS NULL OR v.fecha_venta <= $2)`

	var res repository.SalesSummaryResult
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&res.Count, &res.Units, &res.Amount); err != nil {
		return res, fmt.Errorf("analytics.GetSalesSummary: %w", mapError("resumen ventas", err))
	}
	return res, nil
}

const rankingDesc = `
	SELECT p.id_producto, p.nombre, COALESCE(SUM(v.cantidad_vendida), 0)::BIGINT AS total_vendido
	FROM productos p
	LEFT JOIN ventas v ON v.id_producto = p.id_producto
	GROUP BY p.id_producto, p.nombre
	ORDER BY total_vendido DESC, p.id_producto ASC
	LIMIT $1`

const rankingAsc = `
	SELECT p.id_producto, p.nombre, COALESCE(SUM(v.cantidad_vendida), 0)::BIGINT AS total_vendido
	FROM productos p
	LEFT JOIN ventas v ON v.id_producto = p.id_producto
	GROUP BY p.id_producto, p.nombre
	ORDER BY total_vendido ASC, p.id_producto ASC
	LIMIT $1`

// GetProductRanking todos los productos, activos o no, por unidades vendidas; los que no tienen ventas cuentan 0.
func (r *AnalyticsRepo) GetProductRanking(ctx context.Context, limit int, ascending bool) ([]repository.ProductSalesResult, error) {
	query := rankingDesc
	if ascending {
		query = rankingAsc
	}
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetProductRanking: %w", mapError("ranking", err))
	}
	defer rows.Close()

	results := []repository.ProductSalesResult{}
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.TotalSold); err != nil {
			return nil, fmt.Errorf("analytics.GetProductRanking scan: %w", mapError("ranking", err))
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetProductRanking rows: %w", mapError("ranking", err))
	}
	return results, nil
}

// GetStockReconciliation para cada producto: cantidad registrada y Σentradas − Σsalidas.
func (r *AnalyticsRepo) GetStockReconciliation(ctx context.Context) ([]repository.StockReconciliationResult, error) {
	const query = `
	SELECT
	    p.id_producto,
	    p.nombre,
	    p.cantidad::BIGINT AS stock_actual,
	    COALESCE(SUM(
	        CASE m.tipo_movimiento
	            WHEN 'entrada' THEN m.cantidad
	            WHEN 'salida'  THEN -m.cantidad
	            ELSE 0
	        END
	    ), 0)::BIGINT AS stock_por_movimientos
	FROM productos p
	LEFT JOIN inventario_movimientos m ON m.id_producto = p.id_producto
	GROUP BY p.id_producto, p.nombre, p.cantidad
	ORDER BY p.id_producto`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetStockReconciliation: %w", mapError("conciliación", err))
	}
	defer rows.Close()

	results := []repository.StockReconciliationResult{}
	for rows.Next() {
		var row repository.StockReconciliationResult
		if err := rows.Scan(&row.ProductID, &row.Name, &row.StockActual, &row.StockPorMovimientos); err != nil {
			return nil, fmt.Errorf("analytics.GetStockReconciliation scan: %w", mapError("conciliación", err))
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetStockReconciliation rows: %w", mapError("conciliación", err))
	}
	return results, nil
}
