package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de solicitud de movimiento entre sucursales. El tipo se fija al crear
// y nunca cambia (variante discriminada sobre un mismo registro).
const (
	KindTransfer = "transfer" // push: la sucursal origen envía y descuenta de inmediato
	KindBorrow   = "borrow"   // pull: la sucursal destino solicita; se descuenta al aprobar
)

// Estados del ciclo de vida de una solicitud de movimiento.
//
//	pending → in_transit → completed
//	pending → cancelled
//
// completed y cancelled son terminales: la solicitud y sus ítems quedan inmutables.
const (
	StatusPending   = "pending"
	StatusInTransit = "in_transit"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidTransition indica si el cambio de estado está permitido por la máquina.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInTransit || to == StatusCancelled
	case StatusInTransit:
		return to == StatusCompleted
	}
	return false
}

// MovementItem es una línea de la solicitud. Inmutable una vez creada la
// solicitud, salvo ApprovedQty que fija el motor de aprobación en borrows.
type MovementItem struct {
	ProductID    string
	ProductName  string          // snapshot del catálogo al crear
	RequestedQty int64           // > 0
	UnitCost     decimal.Decimal // snapshot del precio de catálogo al crear; nunca se relee
	LineTotal    decimal.Decimal // RequestedQty × UnitCost
	ApprovedQty  int64           // solo borrows; 0 = línea no aprobada
}

// MovementRequest es la entidad unificada para transfer y borrow.
// FromBranchID es siempre la sucursal cuyo stock se descuenta; ToBranchID la
// que recibe. En transfers la iniciadora es From; en borrows la iniciadora es To.
type MovementRequest struct {
	ID                 string
	Kind               string // transfer, borrow
	InitiatingBranchID string
	FromBranchID       string
	ToBranchID         string

	RequestedDate time.Time
	ExpectedDate  *time.Time
	ActualDate    *time.Time // se fija al completar (recepción física)

	Status string
	Reason string
	Notes  string

	Items []MovementItem

	TotalRequestedQty   int64
	TotalRequestedValue decimal.Decimal

	// Bloque de aprobación: poblado solo cuando un borrow se aprueba.
	TotalApprovedQty   int64
	TotalApprovedValue decimal.Decimal
	ApprovedBy         string
	ApprovedAt         *time.Time

	// Bloque de rechazo: mutuamente excluyente con el de aprobación.
	DeclinedBy     string
	DeclinedAt     *time.Time
	DeclinedReason string

	// FulfillsRequestID enlaza el transfer creado para atender un borrow pendiente.
	FulfillsRequestID string

	CreatedBy string
	CreatedAt time.Time
}

// IsTerminal indica si la solicitud alcanzó un estado terminal.
func (m *MovementRequest) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusCancelled
}

// ComputeRequestedTotals recalcula totales derivados y los LineTotal de cada ítem.
func (m *MovementRequest) ComputeRequestedTotals() {
	var qty int64
	value := decimal.Zero
	for i := range m.Items {
		it := &m.Items[i]
		it.LineTotal = decimal.NewFromInt(it.RequestedQty).Mul(it.UnitCost)
		qty += it.RequestedQty
		value = value.Add(it.LineTotal)
	}
	m.TotalRequestedQty = qty
	m.TotalRequestedValue = value
}

// ComputeApprovedTotals recalcula los totales aprobados a partir de ApprovedQty.
func (m *MovementRequest) ComputeApprovedTotals() {
	var qty int64
	value := decimal.Zero
	for i := range m.Items {
		it := m.Items[i]
		if it.ApprovedQty <= 0 {
			continue
		}
		qty += it.ApprovedQty
		value = value.Add(decimal.NewFromInt(it.ApprovedQty).Mul(it.UnitCost))
	}
	m.TotalApprovedQty = qty
	m.TotalApprovedValue = value
}

// ApprovedItems devuelve solo las líneas con cantidad aprobada positiva.
func (m *MovementRequest) ApprovedItems() []MovementItem {
	out := make([]MovementItem, 0, len(m.Items))
	for _, it := range m.Items {
		if it.ApprovedQty > 0 {
			out = append(out, it)
		}
	}
	return out
}

// Item busca la línea de un producto; nil si no existe.
func (m *MovementRequest) Item(productID string) *MovementItem {
	for i := range m.Items {
		if m.Items[i].ProductID == productID {
			return &m.Items[i]
		}
	}
	return nil
}
