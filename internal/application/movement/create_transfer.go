package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// CreateTransferInput entrada para crear un transfer (push).
// El destino se indica por ID o por nombre; con FulfillsRequestID el transfer
// se crea para atender un borrow pendiente dirigido a la sucursal origen.
type CreateTransferInput struct {
	FromBranchID      string
	ToBranchID        string
	ToBranchName      string
	FulfillsRequestID string
	Items             []ItemInput
	Meta
}

// CreateTransfer crea un transfer: valida sucursales e ítems, toma snapshot de
// catálogo, descuenta el stock de la sucursal origen y persiste la solicitud
// en in_transit — descuento e inserción son una sola unidad atómica. Si algún
// débito falla, nada queda persistido.
func (m *Manager) CreateTransfer(ctx context.Context, in CreateTransferInput) (*entity.MovementRequest, error) {
	from, err := m.branchRepo.GetByID(in.FromBranchID)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, domain.ErrInvalidBranch
	}

	// Modo "atiende la solicitud #R": copiar ítems y metadatos del borrow.
	var fulfills *entity.MovementRequest
	if in.FulfillsRequestID != "" {
		fulfills, err = m.movRepo.GetByID(in.FulfillsRequestID)
		if err != nil {
			return nil, err
		}
		if fulfills == nil || fulfills.Kind != entity.KindBorrow || fulfills.Status != entity.StatusPending {
			return nil, domain.ErrInvalidState
		}
		if fulfills.FromBranchID != from.ID {
			return nil, domain.ErrInvalidBranch
		}
		if in.ToBranchID == "" && in.ToBranchName == "" {
			in.ToBranchID = fulfills.ToBranchID
		}
		if len(in.Items) == 0 {
			in.Items = make([]ItemInput, 0, len(fulfills.Items))
			for _, it := range fulfills.Items {
				in.Items = append(in.Items, ItemInput{ProductID: it.ProductID, Quantity: it.RequestedQty})
			}
		}
		if in.Reason == "" {
			in.Reason = fulfills.Reason
		}
		if in.Notes == "" {
			in.Notes = fulfills.Notes
		}
	}

	to, err := m.resolveBranch(in.ToBranchID, in.ToBranchName)
	if err != nil {
		return nil, err
	}
	if to == nil || to.ID == from.ID {
		return nil, domain.ErrInvalidBranch
	}
	if fulfills != nil && fulfills.ToBranchID != to.ID {
		return nil, domain.ErrInvalidBranch
	}

	items, err := m.snapshotItems(in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &entity.MovementRequest{
		ID:                 uuid.New().String(),
		Kind:               entity.KindTransfer,
		InitiatingBranchID: from.ID,
		FromBranchID:       from.ID,
		ToBranchID:         to.ID,
		RequestedDate:      now,
		ExpectedDate:       in.ExpectedDate,
		Status:             entity.StatusInTransit,
		Reason:             in.Reason,
		Notes:              in.Notes,
		Items:              items,
		CreatedBy:          in.ActorID,
		CreatedAt:          now,
	}
	if fulfills != nil {
		req.FulfillsRequestID = fulfills.ID
	}

	err = m.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledgerRepo repository.StockLedgerRepository,
		auditRepo repository.LedgerMovementRepository,
	) error {
		if fulfills != nil {
			// Re-resolver cantidades contra el stock real del prestamista,
			// con la fila ya bloqueada: min(solicitado, disponible).
			kept := req.Items[:0]
			for _, it := range req.Items {
				entry, err := ledgerRepo.GetForUpdate(from.ID, it.ProductID)
				if err != nil {
					return err
				}
				avail := entry.Quantity
				if entry.Status == entity.LedgerStatusInactive {
					avail = 0
				}
				if it.RequestedQty > avail {
					it.RequestedQty = avail
				}
				if it.RequestedQty == 0 {
					if m.dropZeroFulfillItems {
						// La línea se cae del transfer; el borrow original no se muta.
						continue
					}
					return domain.NewItemError(domain.ErrInsufficientStock, it.ProductID)
				}
				kept = append(kept, it)
			}
			req.Items = kept
			if len(req.Items) == 0 {
				return domain.ErrInsufficientStock
			}
		}
		req.ComputeRequestedTotals()

		for _, it := range req.Items {
			if _, err := applyDebit(ledgerRepo, auditRepo, req.ID, from.ID, it.ProductID, it.RequestedQty, it.UnitCost, in.ActorID, now); err != nil {
				return err
			}
		}
		return movRepo.Create(req)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("request_id", req.ID).
		Str("from", from.ID).
		Str("to", to.ID).
		Int64("total_qty", req.TotalRequestedQty).
		Msg("transfer creado")
	publish(m.events, m.log, "movements.created", req, in.ActorID)
	return req, nil
}
