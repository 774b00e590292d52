package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salon-stock/internal/application/dto"
	"github.com/tu-usuario/salon-stock/internal/application/usecase"
	"github.com/tu-usuario/salon-stock/pkg/validator"
)

// LedgerHandler maneja las consultas de stock por sucursal y los ajustes
// administrativos (protegido). Los movimientos entre sucursales van por el
// MovementHandler.
type LedgerHandler struct {
	uc *usecase.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ListByBranch godoc
// @Summary      Stock de una sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la sucursal"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.LedgerListResponse
// @Router       /api/branches/{id}/stock [get]
func (h *LedgerHandler) ListByBranch(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListByBranch(c.Params("id"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Stock de un producto en una sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la sucursal"
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Router       /api/branches/{id}/stock/{productId} [get]
func (h *LedgerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"), c.Params("productId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Set godoc
// @Summary      Ajustar stock (administrativo)
// @Description  Fija la cantidad de un producto en una sucursal: carga inicial o conteo físico.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                     true  "ID de la sucursal"
// @Param        productId  path  string                     true  "ID del producto"
// @Param        body       body  dto.SetLedgerEntryRequest  true  "Cantidad y valor unitario"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/branches/{id}/stock/{productId} [put]
func (h *LedgerHandler) Set(c *fiber.Ctx) error {
	var in dto.SetLedgerEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	out, err := h.uc.Set(c.Params("id"), c.Params("productId"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar entrada de stock
// @Description  El producto deja de ofrecerse en la sucursal; la fila y su historial permanecen.
// @Tags         stock
// @Security     Bearer
// @Param        id         path  string  true  "ID de la sucursal"
// @Param        productId  path  string  true  "ID del producto"
// @Success      204  "sin contenido"
// @Router       /api/branches/{id}/stock/{productId} [delete]
func (h *LedgerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id"), c.Params("productId")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History godoc
// @Summary      Auditoría del ledger de una sucursal
// @Description  Débitos y créditos aplicados, opcionalmente acotados por fecha (RFC 3339).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la sucursal"
// @Param        from    query  string  false  "Desde (RFC 3339)"
// @Param        to      query  string  false  "Hasta (RFC 3339)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.LedgerMovementListResponse
// @Router       /api/branches/{id}/stock-history [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC 3339"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC 3339"})
		}
		to = &t
	}
	out, err := h.uc.History(c.Params("id"), from, to, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
