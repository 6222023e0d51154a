package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest body para POST /api/ventas.
// ClaveIdempotencia también puede llegar en el header Idempotency-Key.
type RecordSaleRequest struct {
	UserID         int64  `json:"id_usuario" validate:"required,gt=0"`
	ProductID      int64  `json:"id_producto" validate:"required,gt=0"`
	Quantity       int    `json:"cantidad_vendida"`
	IdempotencyKey string `json:"clave_idempotencia,omitempty" validate:"omitempty,uuid"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             int64           `json:"id_venta"`
	UserID         int64           `json:"id_usuario"`
	ProductID      int64           `json:"id_producto"`
	Quantity       int             `json:"cantidad_vendida"`
	Total          decimal.Decimal `json:"total_venta"`
	SoldAt         time.Time       `json:"fecha_venta"`
	IdempotencyKey *string         `json:"clave_idempotencia,omitempty"`
	// Replayed es true cuando la clave ya había producido esta venta y no se registró nada nuevo.
	Replayed bool `json:"reintento"`
}

// SaleListRequest query de GET /api/ventas. Fechas en RFC3339 o YYYY-MM-DD.
type SaleListRequest struct {
	From       string `query:"desde"`
	To         string `query:"hasta"`
	ProductID  int64  `query:"producto_id" validate:"min=0"`
	UserID     int64  `query:"usuario_id" validate:"min=0"`
	OnlyActive bool   `query:"solo_activos"`
	Limit      int    `query:"limit" validate:"min=0,max=500"`
	Offset     int    `query:"offset" validate:"min=0"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RegisterMovementRequest body para POST /api/movimientos.
// El tipo no se valida aquí: un tipo desconocido es InvalidMovementType, no un 400 genérico.
type RegisterMovementRequest struct {
	ProductID   int64  `json:"id_producto" validate:"required,gt=0"`
	Type        string `json:"tipo_movimiento" validate:"required"`
	Quantity    int    `json:"cantidad"`
	Description string `json:"descripcion,omitempty" validate:"max=255"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          int64     `json:"id_movimiento"`
	ProductID   int64     `json:"id_producto"`
	Type        string    `json:"tipo_movimiento"`
	Quantity    int       `json:"cantidad"`
	Description *string   `json:"descripcion,omitempty"`
	Date        time.Time `json:"fecha_movimiento"`
	SaleID      *int64    `json:"id_venta,omitempty"`
	// StockAfter cantidad del producto tras aplicar el movimiento.
	StockAfter int `json:"stock_resultante"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
