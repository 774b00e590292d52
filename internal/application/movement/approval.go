package movement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
	"github.com/tu-usuario/salon-stock/pkg/logger"
)

// ApprovalEngine procesa la revisión de borrows por parte de la sucursal
// prestamista: aprobar un subconjunto de líneas (con cantidades reducidas) o
// rechazar la solicitud completa. El débito de la aprobación usa el mismo
// camino atómico que los transfers.
type ApprovalEngine struct {
	txRunner   TxRunner
	movRepo    repository.MovementRepository
	ledgerRepo repository.StockLedgerRepository
	events     EventPublisher
	log        *logger.Logger
}

// NewApprovalEngine construye el motor de aprobación.
func NewApprovalEngine(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	ledgerRepo repository.StockLedgerRepository,
	events EventPublisher,
	log *logger.Logger,
) *ApprovalEngine {
	return &ApprovalEngine{
		txRunner:   txRunner,
		movRepo:    movRepo,
		ledgerRepo: ledgerRepo,
		events:     events,
		log:        log,
	}
}

// ItemPreview línea de revisión: lo solicitado contra el stock actual del
// prestamista, con la cantidad sugerida min(solicitado, disponible).
type ItemPreview struct {
	ProductID         string
	ProductName       string
	RequestedQty      int64
	AvailableAtLender int64
	SuggestedQty      int64
	UnitCost          decimal.Decimal
}

// ReviewBorrow es una vista de solo lectura: cruza cada línea del borrow con
// el ledger actual del prestamista. No bloquea filas ni garantiza que una
// aprobación posterior con estas cantidades vaya a pasar — eso lo decide la
// atomicidad del propio ApproveBorrow.
func (e *ApprovalEngine) ReviewBorrow(ctx context.Context, requestID string) ([]ItemPreview, error) {
	req, err := e.loadPendingBorrow(requestID)
	if err != nil {
		return nil, err
	}
	previews := make([]ItemPreview, 0, len(req.Items))
	for _, it := range req.Items {
		entry, err := e.ledgerRepo.Get(req.FromBranchID, it.ProductID)
		if err != nil {
			return nil, err
		}
		avail := entry.Quantity
		if entry.Status == entity.LedgerStatusInactive {
			avail = 0
		}
		suggested := it.RequestedQty
		if avail < suggested {
			suggested = avail
		}
		previews = append(previews, ItemPreview{
			ProductID:         it.ProductID,
			ProductName:       it.ProductName,
			RequestedQty:      it.RequestedQty,
			AvailableAtLender: avail,
			SuggestedQty:      suggested,
			UnitCost:          it.UnitCost,
		})
	}
	return previews, nil
}

// ApproveBorrow aprueba un borrow pendiente con las cantidades del mapa
// decisions (productID → cantidad aprobada). Líneas omitidas o en 0 quedan
// fuera del débito y de los ítems aprobados. La disponibilidad se re-verifica
// al momento de aprobar, con la fila bloqueada, porque pudo cambiar desde la
// revisión; el débito completo es todo-o-nada y la solicitud pasa a in_transit.
func (e *ApprovalEngine) ApproveBorrow(ctx context.Context, requestID string, decisions map[string]int64, actorID string) (*entity.MovementRequest, error) {
	req, err := e.loadPendingBorrow(requestID)
	if err != nil {
		return nil, err
	}

	var anyPositive bool
	for productID, qty := range decisions {
		it := req.Item(productID)
		if it == nil || qty < 0 {
			return nil, domain.NewItemError(domain.ErrInvalidItem, productID)
		}
		if qty > it.RequestedQty {
			return nil, domain.NewItemError(domain.ErrOverApproval, productID)
		}
		if qty > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		// Una aprobación sin efecto no es una transición válida: usar Decline.
		return nil, domain.ErrNothingApproved
	}

	now := time.Now()
	err = e.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.LedgerMovementRepository,
	) error {
		for i := range req.Items {
			it := &req.Items[i]
			qty := decisions[it.ProductID]
			if qty <= 0 {
				it.ApprovedQty = 0
				continue
			}
			entry, err := ledgerRepo.GetForUpdate(req.FromBranchID, it.ProductID)
			if err != nil {
				return err
			}
			avail := entry.Quantity
			if entry.Status == entity.LedgerStatusInactive {
				avail = 0
			}
			if qty > avail {
				return domain.NewItemError(domain.ErrOverApproval, it.ProductID)
			}
			if _, err := applyDebit(ledgerRepo, auditRepo, req.ID, req.FromBranchID, it.ProductID, qty, it.UnitCost, actorID, now); err != nil {
				return err
			}
			it.ApprovedQty = qty
		}
		req.ComputeApprovedTotals()
		req.Status = entity.StatusInTransit
		req.ApprovedBy = actorID
		req.ApprovedAt = &now
		return movRepo.Transition(req, entity.StatusPending)
	})
	if err != nil {
		// La solicitud sigue pending: el caller puede re-revisar y reintentar
		// con cantidades ajustadas.
		return nil, err
	}

	e.log.Info().
		Str("request_id", req.ID).
		Str("approved_by", actorID).
		Int64("approved_qty", req.TotalApprovedQty).
		Msg("borrow aprobado")
	publish(e.events, e.log, "movements.approved", req, actorID)
	return req, nil
}

// DeclineBorrow rechaza un borrow pendiente completo. Sin efecto en el ledger.
func (e *ApprovalEngine) DeclineBorrow(ctx context.Context, requestID, reason, actorID string) (*entity.MovementRequest, error) {
	req, err := e.loadPendingBorrow(requestID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	req.Status = entity.StatusCancelled
	req.DeclinedBy = actorID
	req.DeclinedAt = &now
	req.DeclinedReason = reason
	if err := e.movRepo.Transition(req, entity.StatusPending); err != nil {
		return nil, err
	}

	e.log.Info().
		Str("request_id", req.ID).
		Str("declined_by", actorID).
		Msg("borrow rechazado")
	publish(e.events, e.log, "movements.declined", req, actorID)
	return req, nil
}

// loadPendingBorrow carga y valida que la solicitud sea un borrow pendiente.
func (e *ApprovalEngine) loadPendingBorrow(requestID string) (*entity.MovementRequest, error) {
	req, err := e.movRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Kind != entity.KindBorrow || req.Status != entity.StatusPending {
		return nil, domain.ErrInvalidState
	}
	return req, nil
}
