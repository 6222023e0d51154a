package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
)

type dashboardService interface {
	GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error)
}

// DashboardHandler resumen del día, del mes y top de productos.
type DashboardHandler struct {
	uc dashboardService
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc dashboardService) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve ventas de hoy, ventas del mes en curso y el top 5 en vivo.
// GET /api/reportes/dashboard
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
