package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryRequest query de GET /api/reportes/resumen. Ambos límites son opcionales e inclusivos.
type SalesSummaryRequest struct {
	From string `query:"desde"` // RFC3339 o YYYY-MM-DD
	To   string `query:"hasta"`
}

// SalesSummaryDTO totales de ventas en un período.
type SalesSummaryDTO struct {
	From          *time.Time      `json:"desde,omitempty"`
	To            *time.Time      `json:"hasta,omitempty"`
	TotalSales    int64           `json:"total_ventas"`
	UnitsSold     int64           `json:"unidades_vendidas"`
	TotalAmount   decimal.Decimal `json:"monto_total"`
	AverageTicket decimal.Decimal `json:"ticket_promedio"` // 0 cuando no hay ventas
}

// ProductSalesDTO fila de ranking (en vivo o desde el caché).
type ProductSalesDTO struct {
	ProductID int64      `json:"id_producto"`
	Name      string     `json:"nombre"`
	TotalSold int64      `json:"total_vendido"`
	UpdatedAt *time.Time `json:"actualizado_en,omitempty"` // solo en lecturas del caché
}

// StockReconciliationDTO stock registrado frente al derivado de movimientos.
type StockReconciliationDTO struct {
	ProductID           int64  `json:"id_producto"`
	Name                string `json:"nombre"`
	StockActual         int64  `json:"stock_actual"`
	StockPorMovimientos int64  `json:"stock_por_movimientos"`
	Diferencia          int64  `json:"diferencia"` // distinto de 0 indica deriva
}

// RebuildResultDTO resultado de un rebuild del caché.
type RebuildResultDTO struct {
	Rows       int64     `json:"filas"`
	RebuiltAt  time.Time `json:"reconstruido_en"`
	DurationMS int64     `json:"duracion_ms"`
}
