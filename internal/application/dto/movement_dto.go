package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
)

// MovementItemInput línea solicitada en creación de transfer o borrow.
type MovementItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateTransferRequest body para POST /api/movements/transfers. La sucursal
// destino se identifica por ID o por nombre (uno de los dos). Con
// FulfillsRequestID, el transfer atiende un borrow pendiente y destino e ítems
// se derivan de esa solicitud.
type CreateTransferRequest struct {
	ToBranchID        string              `json:"to_branch_id" validate:"omitempty,uuid4"`
	ToBranchName      string              `json:"to_branch_name"`
	FulfillsRequestID string              `json:"fulfills_request_id" validate:"omitempty,uuid4"`
	Items             []MovementItemInput `json:"items" validate:"omitempty,dive"`
	Reason            string              `json:"reason"`
	Notes             string              `json:"notes"`
	ExpectedDate      *time.Time          `json:"expected_date"`
}

// CreateBorrowRequest body para POST /api/movements/borrows. La sucursal del
// actor solicita stock a from_branch_id.
type CreateBorrowRequest struct {
	FromBranchID string              `json:"from_branch_id" validate:"required,uuid4"`
	Items        []MovementItemInput `json:"items" validate:"required,min=1,dive"`
	Reason       string              `json:"reason"`
	Notes        string              `json:"notes"`
	ExpectedDate *time.Time          `json:"expected_date"`
}

// ApprovalDecision cantidad aprobada para una línea del borrow.
type ApprovalDecision struct {
	ProductID   string `json:"product_id" validate:"required"`
	ApprovedQty int64  `json:"approved_qty" validate:"min=0"`
}

// ApproveBorrowRequest body para POST /api/movements/:id/approve.
type ApproveBorrowRequest struct {
	Decisions []ApprovalDecision `json:"decisions" validate:"required,min=1,dive"`
}

// DeclineBorrowRequest body para POST /api/movements/:id/decline.
type DeclineBorrowRequest struct {
	Reason string `json:"reason"`
}

// ListMovementsRequest query params de GET /api/movements.
type ListMovementsRequest struct {
	BranchID  string `query:"branch_id"`
	Direction string `query:"direction" validate:"omitempty,oneof=incoming outgoing"`
	Status    string `query:"status" validate:"omitempty,oneof=pending in_transit completed cancelled"`
	Kind      string `query:"kind" validate:"omitempty,oneof=transfer borrow"`
	PageRequest
}

// MovementItemDTO línea de solicitud en respuestas.
type MovementItemDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	RequestedQty int64           `json:"requested_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	LineTotal    decimal.Decimal `json:"line_total"`
	ApprovedQty  int64           `json:"approved_qty,omitempty"`
}

// MovementResponse solicitud de movimiento completa en respuestas.
type MovementResponse struct {
	ID                 string            `json:"id"`
	Kind               string            `json:"kind"`
	InitiatingBranchID string            `json:"initiating_branch_id"`
	FromBranchID       string            `json:"from_branch_id"`
	ToBranchID         string            `json:"to_branch_id"`
	RequestedDate      time.Time         `json:"requested_date"`
	ExpectedDate       *time.Time        `json:"expected_date,omitempty"`
	ActualDate         *time.Time        `json:"actual_date,omitempty"`
	Status             string            `json:"status"`
	Reason             string            `json:"reason,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	Items              []MovementItemDTO `json:"items"`

	TotalRequestedQty   int64           `json:"total_requested_qty"`
	TotalRequestedValue decimal.Decimal `json:"total_requested_value"`
	TotalApprovedQty    int64           `json:"total_approved_qty,omitempty"`
	TotalApprovedValue  decimal.Decimal `json:"total_approved_value,omitempty"`

	ApprovedBy     string     `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	DeclinedBy     string     `json:"declined_by,omitempty"`
	DeclinedAt     *time.Time `json:"declined_at,omitempty"`
	DeclinedReason string     `json:"declined_reason,omitempty"`

	FulfillsRequestID string    `json:"fulfills_request_id,omitempty"`
	CreatedBy         string    `json:"created_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// ItemPreviewDTO línea de revisión de un borrow (GET /api/movements/:id/review).
type ItemPreviewDTO struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	RequestedQty      int64           `json:"requested_qty"`
	AvailableAtLender int64           `json:"available_at_lender"`
	SuggestedQty      int64           `json:"suggested_qty"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
}

// ToMovementResponse mapea la entidad a su DTO de respuesta.
func ToMovementResponse(m *entity.MovementRequest) *MovementResponse {
	if m == nil {
		return nil
	}
	items := make([]MovementItemDTO, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, MovementItemDTO{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			RequestedQty: it.RequestedQty,
			UnitCost:     it.UnitCost,
			LineTotal:    it.LineTotal,
			ApprovedQty:  it.ApprovedQty,
		})
	}
	return &MovementResponse{
		ID:                 m.ID,
		Kind:               m.Kind,
		InitiatingBranchID: m.InitiatingBranchID,
		FromBranchID:       m.FromBranchID,
		ToBranchID:         m.ToBranchID,
		RequestedDate:      m.RequestedDate,
		ExpectedDate:       m.ExpectedDate,
		ActualDate:         m.ActualDate,
		Status:             m.Status,
		Reason:             m.Reason,
		Notes:              m.Notes,
		Items:              items,

		TotalRequestedQty:   m.TotalRequestedQty,
		TotalRequestedValue: m.TotalRequestedValue,
		TotalApprovedQty:    m.TotalApprovedQty,
		TotalApprovedValue:  m.TotalApprovedValue,

		ApprovedBy:     m.ApprovedBy,
		ApprovedAt:     m.ApprovedAt,
		DeclinedBy:     m.DeclinedBy,
		DeclinedAt:     m.DeclinedAt,
		DeclinedReason: m.DeclinedReason,

		FulfillsRequestID: m.FulfillsRequestID,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
	}
}
