package entity

import "time"

// Estados válidos para Branch.
const (
	BranchStatusActive   = "active"
	BranchStatusInactive = "inactive"
)

// Branch representa una sucursal (local de venta o de servicios) con inventario propio.
type Branch struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
