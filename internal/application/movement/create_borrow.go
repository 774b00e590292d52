package movement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// CreateBorrowInput entrada para crear un borrow (pull). La sucursal
// iniciadora es siempre la receptora; FromBranchID es la prestamista.
type CreateBorrowInput struct {
	InitiatingBranchID string
	FromBranchID       string
	Items              []ItemInput
	Meta
}

// CreateBorrow crea un borrow en pending, sin tocar el ledger: la prestamista
// aún no aceptó, así que verificar su stock aquí sería predictivo y no
// autoritativo. La validación se limita a ítems bien formados y a la regla de
// negocio de que el producto esté en el catálogo común de ambas sucursales.
func (m *Manager) CreateBorrow(ctx context.Context, in CreateBorrowInput) (*entity.MovementRequest, error) {
	initiator, err := m.branchRepo.GetByID(in.InitiatingBranchID)
	if err != nil {
		return nil, err
	}
	if initiator == nil {
		return nil, domain.ErrInvalidBranch
	}
	lender, err := m.branchRepo.GetByID(in.FromBranchID)
	if err != nil {
		return nil, err
	}
	if lender == nil || lender.ID == initiator.ID {
		return nil, domain.ErrInvalidBranch
	}

	items, err := m.snapshotItems(in.Items)
	if err != nil {
		return nil, err
	}

	// Regla de negocio: solo se puede pedir lo que la propia sucursal también
	// manejaría — intersección de catálogos con stock positivo en ambas.
	common, err := m.ledgerRepo.CommonCatalog(lender.ID, initiator.ID)
	if err != nil {
		return nil, err
	}
	commonSet := make(map[string]bool, len(common))
	for _, id := range common {
		commonSet[id] = true
	}
	for _, it := range items {
		if !commonSet[it.ProductID] {
			return nil, domain.NewItemError(domain.ErrInvalidItem, it.ProductID)
		}
	}

	now := time.Now()
	req := &entity.MovementRequest{
		ID:                 uuid.New().String(),
		Kind:               entity.KindBorrow,
		InitiatingBranchID: initiator.ID,
		FromBranchID:       lender.ID,
		ToBranchID:         initiator.ID,
		RequestedDate:      now,
		ExpectedDate:       in.ExpectedDate,
		Status:             entity.StatusPending,
		Reason:             in.Reason,
		Notes:              in.Notes,
		Items:              items,
		CreatedBy:          in.ActorID,
		CreatedAt:          now,
	}
	req.ComputeRequestedTotals()

	// Sin mutación de ledger; la transacción solo cubre cabecera + ítems.
	err = m.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockLedgerRepository,
		_ repository.LedgerMovementRepository,
	) error {
		return movRepo.Create(req)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info().
		Str("request_id", req.ID).
		Str("lender", lender.ID).
		Str("borrower", initiator.ID).
		Int64("total_qty", req.TotalRequestedQty).
		Msg("borrow creado")
	publish(m.events, m.log, "movements.created", req, in.ActorID)
	return req, nil
}
