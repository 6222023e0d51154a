// Package inventory contiene las reglas puras del ledger de stock (servicio de dominio).
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bar-inventario-api/internal/domain"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// ValidMovementType indica si t es "entrada" o "salida".
func ValidMovementType(t string) bool {
	return t == entity.MovementTypeEntrada || t == entity.MovementTypeSalida
}

// ApplyMovement devuelve el stock resultante de aplicar un movimiento sobre current.
// Nunca deja el stock en negativo: una salida mayor al stock devuelve ErrInsufficientStock.
func ApplyMovement(current int, movementType string, quantity int) (int, error) {
	if quantity <= 0 {
		return current, domain.ErrInvalidInput
	}
	switch movementType {
	case entity.MovementTypeEntrada:
		return current + quantity, nil
	case entity.MovementTypeSalida:
		if quantity > current {
			return current, domain.ErrInsufficientStock
		}
		return current - quantity, nil
	default:
		return current, domain.ErrInvalidMovementType
	}
}

// Delta cantidad con signo que un movimiento aporta al stock.
func Delta(movementType string, quantity int) int {
	if movementType == entity.MovementTypeSalida {
		return -quantity
	}
	return quantity
}

// SaleTotal calcula round(precio × cantidad, 2) con redondeo half-up.
func SaleTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// AverageTicket = monto / ventas redondeado a 2 decimales (half-up), como todo monto expuesto; 0 cuando no hay ventas.
func AverageTicket(amount decimal.Decimal, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return amount.Div(decimal.NewFromInt(count)).Round(2)
}

// Drift diferencia con signo entre el stock registrado y el derivado de movimientos.
// Distinto de cero indica una entrada inicial faltante o una edición directa fuera del ledger.
func Drift(stockActual, stockPorMovimientos int64) int64 {
	return stockActual - stockPorMovimientos
}
