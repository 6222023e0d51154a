package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/bar-inventario-api/internal/application/dto"
	"github.com/jhoicas/bar-inventario-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// writeError traduce un error de dominio al status HTTP y al cuerpo dto.ErrorResponse.
// Los fallos de infraestructura responden 500 sin detalle; el detalle queda en el log.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidMovementType):
		return fiber.StatusBadRequest, "INVALID_MOVEMENT_TYPE", domain.ErrInvalidMovementType.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS", domain.ErrEmailAlreadyExists.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK", domain.ErrInsufficientStock.Error()
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE", domain.ErrDuplicate.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "cuenta inactiva o sin permisos"
	case errors.Is(err, domain.ErrUpload):
		return fiber.StatusBadGateway, "UPLOAD_FAILED", "no se pudo subir el archivo"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "TIMEOUT", "la consulta tardó demasiado"
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}

// bindJSON parsea y valida el body. Los fallos vuelven como ErrInvalidInput para writeError.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("cuerpo inválido: %w", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

// bindQuery igual que bindJSON para parámetros de query.
func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("parámetros de consulta inválidos: %w", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("datos inválidos: %w", domain.ErrInvalidInput)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+fe.Tag())
	}
	return fmt.Errorf("%w (%s)", domain.ErrInvalidInput, strings.Join(parts, ", "))
}

// paramID lee un id numérico positivo del path.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s debe ser un entero positivo: %w", name, domain.ErrInvalidInput)
	}
	return id, nil
}
