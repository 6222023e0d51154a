package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/application/inventory"
	"github.com/jhoicas/bar-inventario-api/internal/domain/entity"
)

// ledgerService lo implementa *inventory.LedgerUseCase.
type ledgerService interface {
	RecordSaleFromRequest(ctx context.Context, in dto.RecordSaleRequest, headerKey string) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id int64) (*entity.Sale, error)
	ListSalesFromRequest(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error)
	RegisterMovementFromRequest(ctx context.Context, in dto.RegisterMovementRequest) (*dto.MovementResponse, error)
	ListMovementsFromRequest(ctx context.Context, productID int64, limit, offset int) (*dto.MovementListResponse, error)
}

// InventoryHandler maneja ventas y movimientos de inventario (protegido).
type InventoryHandler struct {
	uc ledgerService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc ledgerService) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, calcula el total y registra el movimiento de salida en una sola transacción.
// @Description  Con clave de idempotencia (body o header Idempotency-Key) un reintento devuelve la venta original con 200.
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "UUID del intento"
// @Param        body             body    dto.RecordSaleRequest  true   "id_usuario, id_producto, cantidad_vendida"
// @Success      201   {object}  dto.SaleResponse
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RecordSaleFromRequest(c.Context(), in, c.Get("Idempotency-Key"))
	if err != nil {
		return writeError(c, err)
	}
	if out.Replayed {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	sale, err := h.uc.GetSale(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToSaleResponse(sale))
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        desde         query  string  false  "RFC3339 o YYYY-MM-DD (inclusivo)"
// @Param        hasta         query  string  false  "RFC3339 o YYYY-MM-DD (inclusivo, día completo)"
// @Param        producto_id   query  int     false  "Filtrar por producto"
// @Param        usuario_id    query  int     false  "Filtrar por usuario"
// @Param        solo_activos  query  bool    false  "Excluir productos y usuarios dados de baja"
// @Param        limit         query  int     false  "Límite"  default(100)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ventas [get]
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if err := bindQuery(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListSalesFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "id_producto, tipo_movimiento (entrada|salida), cantidad, descripcion"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  int  false  "Filtrar por producto"
// @Param        limit        query  int  false  "Límite"  default(100)
// @Param        offset       query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movimientos [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("producto_id", 0))
	out, err := h.uc.ListMovementsFromRequest(c.Context(), productID, c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
