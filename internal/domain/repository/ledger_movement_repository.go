package repository

import (
	"time"

	"github.com/tu-usuario/salon-stock/internal/domain/entity"
)

// LedgerMovementRepository define el puerto para la auditoría de aplicaciones
// al ledger (una fila inmutable por débito/crédito).
type LedgerMovementRepository interface {
	Create(movement *entity.LedgerMovement) error
	ListByRequest(requestID string) ([]*entity.LedgerMovement, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerMovement, error)
}
