package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrada de ledger.
const (
	LedgerStatusActive   = "active"
	LedgerStatusInactive = "inactive"
)

// StockLedgerEntry es la cantidad disponible autoritativa de un producto en una
// sucursal. Clave (BranchID, ProductID). Quantity nunca es negativa; toda
// mutación pasa por el camino atómico de aplicación del motor de movimientos.
// Las entradas no se borran, solo se desactivan.
type StockLedgerEntry struct {
	BranchID  string
	ProductID string
	Quantity  int64
	UnitValue decimal.Decimal // informativo, tomado del catálogo
	Status    string          // active, inactive
	UpdatedAt time.Time
}
