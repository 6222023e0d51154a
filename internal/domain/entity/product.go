package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del bar (tabla productos).
// Quantity es el stock autoritativo y solo cambia vía el ledger (ventas y movimientos).
type Product struct {
	ID        int64
	Name      string
	Category  string
	Brand     string
	Quantity  int
	Price     decimal.Decimal // precio de venta
	ImageURL  *string
	Active    bool
	CreatedAt time.Time
}
