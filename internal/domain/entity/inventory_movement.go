package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "entrada"
	MovementTypeSalida  = "salida"
)

// SaleMovementDescription descripción del movimiento de salida que acompaña a cada venta.
const SaleMovementDescription = "venta"

// InventoryMovement representa un movimiento del ledger (inmutable).
type InventoryMovement struct {
	ID          int64
	ProductID   int64
	Type        string
	Quantity    int // siempre positivo; el signo lo da Type
	Description *string
	Date        time.Time
	SaleID      *int64 // presente solo en salidas generadas por una venta
}
