package repository

import "github.com/tu-usuario/salon-stock/internal/domain/entity"

// MovementFilter filtros para listar solicitudes de movimiento.
type MovementFilter struct {
	BranchID  string // coincide con origen o destino
	Direction string // "incoming" (destino), "outgoing" (origen) o vacío
	Status    string
	Kind      string
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para solicitudes de
// movimiento y sus ítems embebidos.
type MovementRepository interface {
	Create(req *entity.MovementRequest) error
	GetByID(id string) (*entity.MovementRequest, error)
	List(filter MovementFilter) ([]*entity.MovementRequest, error)
	// ListPendingBorrowsBetween devuelve los borrows pendientes donde from presta y to recibe.
	ListPendingBorrowsBetween(fromBranchID, toBranchID string) ([]*entity.MovementRequest, error)
	// Transition persiste el cambio de estado y los campos de aprobación/rechazo/recepción
	// del struct, en una sola sentencia condicionada al estado esperado (compare-and-set).
	// Devuelve domain.ErrInvalidState si la solicitud ya no está en expectStatus.
	Transition(req *entity.MovementRequest, expectStatus string) error
}
