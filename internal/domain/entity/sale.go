package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es una venta inmutable. Total se calcula al momento de la venta y no se recalcula.
type Sale struct {
	ID             int64
	UserID         int64
	ProductID      int64
	Quantity       int
	Total          decimal.Decimal
	SoldAt         time.Time
	IdempotencyKey *string
}
