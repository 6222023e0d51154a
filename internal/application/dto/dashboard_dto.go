package dto

// DashboardSummaryDTO respuesta de GET /api/reportes/dashboard.
// KPIs del día y del mes en curso, más el top 5 de productos por unidades vendidas.
type DashboardSummaryDTO struct {
	Today SalesSummaryDTO `json:"hoy"`
	Month SalesSummaryDTO `json:"mes"`

	TopProducts []ProductSalesDTO `json:"top_productos"`

	DateLabel string `json:"etiqueta_mes"` // ej: "Febrero 2026"
}
