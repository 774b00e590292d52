package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerMovement es la fila de auditoría inmutable que deja cada débito o
// crédito aplicado al ledger. Delta negativo descuenta, positivo acredita.
type LedgerMovement struct {
	ID           string
	RequestID    string // solicitud de movimiento que originó la aplicación
	BranchID     string
	ProductID    string
	Delta        int64
	ResultingQty int64 // cantidad resultante tras aplicar el delta
	UnitCost     decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string
}
