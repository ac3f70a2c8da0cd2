package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// LocalError guarda el error de un 5xx para que el logger de peticiones lo registre.
const LocalError = "request_error"

// writeError traduce un error de dominio a status HTTP y dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		c.Locals(LocalError, err)
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInventoryClosed):
		return fiber.StatusConflict, "INVENTORY_CLOSED"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrIncompleteInventory):
		return fiber.StatusUnprocessableEntity, "INCOMPLETE_INVENTORY"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT"
	case errors.Is(err, domain.ErrStorage):
		return fiber.StatusInternalServerError, "STORAGE"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// invalidBody responde a un cuerpo que no decodifica (p. ej. min_stock no numérico)
// como error de validación.
func invalidBody(c *fiber.Ctx) error {
	return writeError(c, domain.Validationf("cuerpo inválido"))
}
