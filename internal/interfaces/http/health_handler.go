package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bar-inventario-api/internal/infrastructure/postgres"
)

type dbChecker interface {
	Check(ctx context.Context) (*postgres.DBInfo, error)
}

// HealthHandler endpoints públicos de salud.
type HealthHandler struct {
	service string
	db      dbChecker
}

// NewHealthHandler construye el handler.
func NewHealthHandler(service string, db dbChecker) *HealthHandler {
	return &HealthHandler{service: service, db: db}
}

// Health godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}

// DBCheck godoc
// @Summary      Conectividad con PostgreSQL
// @Tags         health
// @Produce      json
// @Success      200  {object}  postgres.DBInfo
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health/db-check [get]
func (h *HealthHandler) DBCheck(c *fiber.Ctx) error {
	info, err := h.db.Check(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error", "code": "DB_UNAVAILABLE", "message": "no se pudo consultar la base de datos",
		})
	}
	return c.JSON(fiber.Map{"status": "ok", "db": info})
}
