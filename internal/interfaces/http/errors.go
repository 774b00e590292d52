package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salon-stock/internal/application/dto"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/pkg/validator"
)

// respondDomainError mapea errores de dominio a respuestas HTTP. Errores por
// línea (ItemError) llevan el producto ofensor en el cuerpo para que el
// cliente corrija esa línea en vez de adivinar.
func respondDomainError(c *fiber.Ctx, err error) error {
	productID := domain.OffendingProduct(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInvalidItem):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ITEM", Message: err.Error(), ProductID: productID})
	case errors.Is(err, domain.ErrInvalidBranch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BRANCH", Message: "sucursal inválida"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", ProductID: productID})
	case errors.Is(err, domain.ErrOverApproval):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_APPROVAL", Message: "cantidad aprobada excede lo solicitado o lo disponible", ProductID: productID})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el estado actual no permite la operación"})
	case errors.Is(err, domain.ErrNothingApproved):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOTHING_APPROVED", Message: "ninguna línea con cantidad aprobada; usar decline"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// respondValidation responde 400 con el primer campo que no pasó las tags `validate`.
func respondValidation(c *fiber.Ctx, errs []validator.FieldError) error {
	msg := "datos inválidos"
	if len(errs) > 0 {
		msg = "campo inválido: " + errs[0].Field + " (" + errs[0].Tag + ")"
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
