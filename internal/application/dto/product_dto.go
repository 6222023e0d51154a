package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock inicial (sin movimiento).
type CreateProductRequest struct {
	Name     string          `json:"nombre" validate:"required,min=1,max=150"`
	Category string          `json:"categoria" validate:"required,max=100"`
	Brand    string          `json:"marca" validate:"max=100"`
	Quantity int             `json:"cantidad" validate:"min=0"`
	Price    decimal.Decimal `json:"precio_venta"`
	ImageURL *string         `json:"imagen_url,omitempty" validate:"omitempty,url"`
}

// UpdateProductRequest entrada para actualizar un producto. La cantidad no se edita aquí.
type UpdateProductRequest struct {
	Name     *string          `json:"nombre" validate:"omitempty,min=1,max=150"`
	Category *string          `json:"categoria" validate:"omitempty,max=100"`
	Brand    *string          `json:"marca" validate:"omitempty,max=100"`
	Price    *decimal.Decimal `json:"precio_venta"`
	ImageURL *string          `json:"imagen_url" validate:"omitempty,url"`
}

// ProductSearchRequest query de GET /api/productos.
type ProductSearchRequest struct {
	Query      string `query:"q"`
	OnlyActive bool   `query:"solo_activos"`
	Limit      int    `query:"limit" validate:"min=0,max=100"`
	Offset     int    `query:"offset" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        int64           `json:"id_producto"`
	Name      string          `json:"nombre"`
	Category  string          `json:"categoria"`
	Brand     string          `json:"marca"`
	Quantity  int             `json:"cantidad"`
	Price     decimal.Decimal `json:"precio_venta"`
	ImageURL  *string         `json:"imagen_url,omitempty"`
	Active    bool            `json:"activo"`
	CreatedAt time.Time       `json:"fecha_agregado"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
