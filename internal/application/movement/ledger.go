package movement

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// Este archivo es el único camino de mutación del Stock Ledger. Tanto la
// creación de transfers como la aprobación de borrows y la recepción pasan
// por applyDebit/applyCredit dentro de una transacción del TxRunner: se
// bloquea la fila (SELECT FOR UPDATE), se valida no-negatividad y se
// materializa la nueva cantidad junto con su fila de auditoría, todo en el
// mismo paso atómico. Nadie más escribe cantidades en el ledger.

// applyDebit descuenta qty unidades del ledger (branchID, productID).
// Falla con ErrInsufficientStock (envuelto con el producto) si la cantidad
// resultante quedaría negativa, y con ErrInvalidItem si la entrada está inactiva.
func applyDebit(
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.LedgerMovementRepository,
	requestID, branchID, productID string,
	qty int64,
	unitCost decimal.Decimal,
	actor string,
	now time.Time,
) (int64, error) {
	if qty <= 0 {
		return 0, domain.NewItemError(domain.ErrInvalidItem, productID)
	}
	entry, err := ledgerRepo.GetForUpdate(branchID, productID)
	if err != nil {
		return 0, err
	}
	if entry.Status == entity.LedgerStatusInactive {
		return 0, domain.NewItemError(domain.ErrInvalidItem, productID)
	}
	if entry.Quantity < qty {
		return 0, domain.NewItemError(domain.ErrInsufficientStock, productID)
	}
	entry.Quantity -= qty
	entry.UpdatedAt = now
	if err := ledgerRepo.Upsert(entry); err != nil {
		return 0, err
	}
	audit := &entity.LedgerMovement{
		RequestID:    requestID,
		BranchID:     branchID,
		ProductID:    productID,
		Delta:        -qty,
		ResultingQty: entry.Quantity,
		UnitCost:     unitCost,
		CreatedAt:    now,
		CreatedBy:    actor,
	}
	if err := auditRepo.Create(audit); err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// applyCredit acredita qty unidades en el ledger (branchID, productID).
// Si la sucursal nunca tuvo el producto, la entrada se crea con el costo
// snapshot como valor informativo.
func applyCredit(
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.LedgerMovementRepository,
	requestID, branchID, productID string,
	qty int64,
	unitCost decimal.Decimal,
	actor string,
	now time.Time,
) (int64, error) {
	if qty <= 0 {
		return 0, domain.NewItemError(domain.ErrInvalidItem, productID)
	}
	entry, err := ledgerRepo.GetForUpdate(branchID, productID)
	if err != nil {
		return 0, err
	}
	if entry.Status == "" {
		entry.Status = entity.LedgerStatusActive
	}
	if entry.UnitValue.IsZero() {
		entry.UnitValue = unitCost
	}
	entry.Quantity += qty
	entry.UpdatedAt = now
	if err := ledgerRepo.Upsert(entry); err != nil {
		return 0, err
	}
	audit := &entity.LedgerMovement{
		RequestID:    requestID,
		BranchID:     branchID,
		ProductID:    productID,
		Delta:        qty,
		ResultingQty: entry.Quantity,
		UnitCost:     unitCost,
		CreatedAt:    now,
		CreatedBy:    actor,
	}
	if err := auditRepo.Create(audit); err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}
