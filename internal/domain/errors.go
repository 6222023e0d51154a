package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists  = errors.New("el correo ya está registrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido (use 'entrada' o 'salida')")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrStorage             = errors.New("fallo de almacenamiento")
	ErrUpload              = errors.New("fallo al subir archivo")
)

// Variantes de ErrNotFound con el recurso concreto; errors.Is(err, ErrNotFound) sigue siendo true.
var (
	ErrUserNotFound    = fmt.Errorf("usuario no existe: %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("producto no existe: %w", ErrNotFound)
	ErrSaleNotFound    = fmt.Errorf("venta no existe: %w", ErrNotFound)
)

// IsBusiness indica si err es un fallo de regla de negocio (4xx) y no de infraestructura.
func IsBusiness(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidMovementType),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInsufficientStock):
		return true
	}
	return false
}
