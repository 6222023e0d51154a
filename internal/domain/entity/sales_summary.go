package entity

import "time"

// SalesSummaryEntry fila materializada de resumen_ventas_producto. Se reemplaza completa en cada rebuild.
type SalesSummaryEntry struct {
	ProductID int64
	Name      string
	TotalSold int64
	UpdatedAt time.Time
}
