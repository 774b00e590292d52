package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo central (compartido entre sucursales).
// El stock por sucursal vive en StockLedgerEntry; aquí solo datos de catálogo.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	UnitPrice   decimal.Decimal // precio de catálogo; los movimientos toman snapshot al crearse
	UnitMeasure string
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
