package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/salon-stock/internal/application/dto"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
	"github.com/tu-usuario/salon-stock/pkg/validator"
)

// MovementHandler maneja las peticiones HTTP del motor de movimientos entre
// sucursales: transfers, borrows, aprobación y recepción (protegido).
type MovementHandler struct {
	manager  *movement.Manager
	approval *movement.ApprovalEngine
	resolver *movement.Resolver
}

// NewMovementHandler construye el handler.
func NewMovementHandler(manager *movement.Manager, approval *movement.ApprovalEngine, resolver *movement.Resolver) *MovementHandler {
	return &MovementHandler{manager: manager, approval: approval, resolver: resolver}
}

// CreateTransfer godoc
// @Summary      Crear transfer (envío push)
// @Description  La sucursal del actor envía stock a otra; el descuento es inmediato.
//
//	Con fulfills_request_id, el transfer atiende un borrow pendiente y
//	destino e ítems se derivan de esa solicitud.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Destino (id o nombre), ítems, fulfills_request_id opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/transfers [post]
func (h *MovementHandler) CreateTransfer(c *fiber.Ctx) error {
	branchID := GetBranchID(c)
	if branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin sucursal"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	req, err := h.manager.CreateTransfer(c.Context(), movement.CreateTransferInput{
		FromBranchID:      branchID,
		ToBranchID:        in.ToBranchID,
		ToBranchName:      in.ToBranchName,
		FulfillsRequestID: in.FulfillsRequestID,
		Items:             toItemInputs(in.Items),
		Meta: movement.Meta{
			ActorID:      GetUserID(c),
			Reason:       in.Reason,
			Notes:        in.Notes,
			ExpectedDate: in.ExpectedDate,
		},
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(req))
}

// CreateBorrow godoc
// @Summary      Crear borrow (solicitud pull)
// @Description  La sucursal del actor solicita stock a otra. Queda pendiente y no toca
//
//	el ledger hasta que la prestamista apruebe.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBorrowRequest  true  "Sucursal prestamista e ítems"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/borrows [post]
func (h *MovementHandler) CreateBorrow(c *fiber.Ctx) error {
	branchID := GetBranchID(c)
	if branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin sucursal"})
	}
	var in dto.CreateBorrowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	req, err := h.manager.CreateBorrow(c.Context(), movement.CreateBorrowInput{
		InitiatingBranchID: branchID,
		FromBranchID:       in.FromBranchID,
		Items:              toItemInputs(in.Items),
		Meta: movement.Meta{
			ActorID:      GetUserID(c),
			Reason:       in.Reason,
			Notes:        in.Notes,
			ExpectedDate: in.ExpectedDate,
		},
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(req))
}

// GetByID godoc
// @Summary      Obtener solicitud de movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.manager.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(req))
}

// List godoc
// @Summary      Listar solicitudes de movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (origen o destino)"
// @Param        direction  query  string  false  "incoming | outgoing"
// @Param        status     query  string  false  "pending | in_transit | completed | cancelled"
// @Param        kind       query  string  false  "transfer | borrow"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	in.DefaultPage()
	list, err := h.manager.List(c.Context(), repository.MovementFilter{
		BranchID:  in.BranchID,
		Direction: in.Direction,
		Status:    in.Status,
		Kind:      in.Kind,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, req := range list {
		out = append(out, dto.ToMovementResponse(req))
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Revisar borrow pendiente
// @Description  Cruza cada línea solicitada con el stock actual de la prestamista y
//
//	sugiere min(solicitado, disponible). Solo lectura.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrow"
// @Success      200  {array}   dto.ItemPreviewDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/review [get]
func (h *MovementHandler) Review(c *fiber.Ctx) error {
	previews, err := h.approval.ReviewBorrow(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ItemPreviewDTO, 0, len(previews))
	for _, p := range previews {
		out = append(out, dto.ItemPreviewDTO{
			ProductID:         p.ProductID,
			ProductName:       p.ProductName,
			RequestedQty:      p.RequestedQty,
			AvailableAtLender: p.AvailableAtLender,
			SuggestedQty:      p.SuggestedQty,
			UnitCost:          p.UnitCost,
		})
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar borrow (total o parcial)
// @Description  Debita el stock de la prestamista por las cantidades aprobadas y pasa la
//
//	solicitud a in_transit. Líneas omitidas o en 0 quedan fuera. Todo-o-nada.
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del borrow"
// @Param        body  body  dto.ApproveBorrowRequest  true  "Cantidades aprobadas por línea"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/approve [post]
func (h *MovementHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveBorrowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	decisions := make(map[string]int64, len(in.Decisions))
	for _, d := range in.Decisions {
		decisions[d.ProductID] = d.ApprovedQty
	}
	req, err := h.approval.ApproveBorrow(c.Context(), c.Params("id"), decisions, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(req))
}

// Decline godoc
// @Summary      Rechazar borrow
// @Description  Rechaza la solicitud completa. Sin efecto en el ledger.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del borrow"
// @Param        body  body  dto.DeclineBorrowRequest  false "Motivo"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/decline [post]
func (h *MovementHandler) Decline(c *fiber.Ctx) error {
	var in dto.DeclineBorrowRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	req, err := h.approval.DeclineBorrow(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(req))
}

// Receive godoc
// @Summary      Confirmar recepción física
// @Description  Acredita las unidades en la sucursal destino y completa la solicitud.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/receive [post]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	req, err := h.manager.Receive(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.ToMovementResponse(req))
}

// PendingBorrows godoc
// @Summary      Borrows pendientes entre dos sucursales
// @Description  Lo que from_branch_id tiene pendiente de prestar a to_branch_id: el
//
//	remitente elige aquí qué solicitud está atendiendo con su transfer.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        from_branch_id  query  string  true  "Sucursal prestamista"
// @Param        to_branch_id    query  string  true  "Sucursal solicitante"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/pending-borrows [get]
func (h *MovementHandler) PendingBorrows(c *fiber.Ctx) error {
	list, err := h.resolver.FindPendingBorrowsBetween(c.Context(), c.Query("from_branch_id"), c.Query("to_branch_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, req := range list {
		out = append(out, dto.ToMovementResponse(req))
	}
	return c.JSON(out)
}

// CommonCatalog godoc
// @Summary      Catálogo común entre dos sucursales
// @Description  Productos con entrada activa y cantidad positiva en ambas sucursales.
//
//	Vista advisory para armar solicitudes; puede estar hasta 60s desfasada.
//
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        branch_a  query  string  true  "Primera sucursal"
// @Param        branch_b  query  string  true  "Segunda sucursal"
// @Success      200  {array}   string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements/common-catalog [get]
func (h *MovementHandler) CommonCatalog(c *fiber.Ctx) error {
	ids, err := h.resolver.FindCommonCatalog(c.Context(), c.Query("branch_a"), c.Query("branch_b"))
	if err != nil {
		return respondDomainError(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(ids)
}

func toItemInputs(items []dto.MovementItemInput) []movement.ItemInput {
	out := make([]movement.ItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, movement.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
