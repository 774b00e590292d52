package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetLedgerEntryRequest body para PUT /api/branches/:id/stock/:productId
// (ajuste administrativo directo de la cantidad).
type SetLedgerEntryRequest struct {
	Quantity  int64           `json:"quantity" validate:"min=0"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// LedgerEntryResponse entrada de ledger en respuestas.
type LedgerEntryResponse struct {
	BranchID  string          `json:"branch_id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	Status    string          `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerMovementResponse fila de auditoría del ledger.
type LedgerMovementResponse struct {
	ID           string          `json:"id"`
	RequestID    string          `json:"request_id,omitempty"`
	BranchID     string          `json:"branch_id"`
	ProductID    string          `json:"product_id"`
	Delta        int64           `json:"delta"`
	ResultingQty int64           `json:"resulting_qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	CreatedAt    time.Time       `json:"created_at"`
	CreatedBy    string          `json:"created_by,omitempty"`
}

// LedgerListResponse página de entradas de ledger de una sucursal.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LedgerMovementListResponse página de auditoría del ledger.
type LedgerMovementListResponse struct {
	Items []LedgerMovementResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
