package movement

import (
	"context"
	"time"

	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// Receive confirma la recepción física de una solicitud in_transit: acredita
// las unidades en el ledger de la sucursal destino y pasa a completed con
// ActualDate. Transfers acreditan lo solicitado; borrows, lo aprobado.
// El compare-and-set sobre in_transit dentro de la misma transacción evita
// una doble recepción.
func (m *Manager) Receive(ctx context.Context, requestID, actorID string) (*entity.MovementRequest, error) {
	req, err := m.movRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.StatusInTransit {
		return nil, domain.ErrInvalidState
	}

	credits := req.Items
	if req.Kind == entity.KindBorrow {
		credits = req.ApprovedItems()
	}

	now := time.Now()
	err = m.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.LedgerMovementRepository,
	) error {
		for _, it := range credits {
			qty := it.RequestedQty
			if req.Kind == entity.KindBorrow {
				qty = it.ApprovedQty
			}
			if _, err := applyCredit(ledgerRepo, auditRepo, req.ID, req.ToBranchID, it.ProductID, qty, it.UnitCost, actorID, now); err != nil {
				return err
			}
		}
		req.Status = entity.StatusCompleted
		req.ActualDate = &now
		return movRepo.Transition(req, entity.StatusInTransit)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("request_id", req.ID).
		Str("received_by", actorID).
		Msg("movimiento recibido")
	publish(m.events, m.log, "movements.received", req, actorID)
	return req, nil
}
