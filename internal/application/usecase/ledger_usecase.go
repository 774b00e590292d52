package usecase

import (
	"time"

	"github.com/tu-usuario/salon-stock/internal/application/dto"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// LedgerUseCase lecturas del ledger de stock y ajustes administrativos.
// Los movimientos entre sucursales NO pasan por aquí: usan el motor de
// movimientos, que debita/acredita dentro de una transacción.
type LedgerUseCase struct {
	ledgerRepo repository.StockLedgerRepository
	auditRepo  repository.LedgerMovementRepository
	branchRepo repository.BranchRepository
	prodRepo   repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.LedgerMovementRepository,
	branchRepo repository.BranchRepository,
	prodRepo repository.ProductRepository,
) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, auditRepo: auditRepo, branchRepo: branchRepo, prodRepo: prodRepo}
}

// Get obtiene la entrada de ledger de un producto en una sucursal. Sin fila
// persistida, devuelve cantidad cero.
func (uc *LedgerUseCase) Get(branchID, productID string) (*dto.LedgerEntryResponse, error) {
	entry, err := uc.ledgerRepo.Get(branchID, productID)
	if err != nil {
		return nil, err
	}
	return toLedgerEntryResponse(entry), nil
}

// ListByBranch lista el stock de una sucursal con paginación.
func (uc *LedgerUseCase) ListByBranch(branchID string, limit, offset int) (*dto.LedgerListResponse, error) {
	list, err := uc.ledgerRepo.ListByBranch(branchID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toLedgerEntryResponse(e))
	}
	return &dto.LedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Set fija la cantidad de una entrada (ajuste administrativo: carga inicial,
// conteo físico). Valida sucursal y producto; cantidad negativa es inválida.
func (uc *LedgerUseCase) Set(branchID, productID string, in dto.SetLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	branch, err := uc.branchRepo.GetByID(branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrInvalidBranch
	}
	product, err := uc.prodRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewItemError(domain.ErrInvalidItem, productID)
	}
	unitValue := in.UnitValue
	if unitValue.IsZero() {
		unitValue = product.UnitPrice
	}
	entry := &entity.StockLedgerEntry{
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  in.Quantity,
		UnitValue: unitValue,
		Status:    entity.LedgerStatusActive,
		UpdatedAt: time.Now(),
	}
	if err := uc.ledgerRepo.Upsert(entry); err != nil {
		return nil, err
	}
	return toLedgerEntryResponse(entry), nil
}

// Deactivate marca la entrada como inactiva (el producto deja de ofrecerse en
// esa sucursal). La fila y su historial permanecen.
func (uc *LedgerUseCase) Deactivate(branchID, productID string) error {
	return uc.ledgerRepo.Deactivate(branchID, productID)
}

// History lista la auditoría de aplicaciones al ledger de una sucursal,
// opcionalmente acotada por fechas.
func (uc *LedgerUseCase) History(branchID string, from, to *time.Time, limit, offset int) (*dto.LedgerMovementListResponse, error) {
	list, err := uc.auditRepo.ListByBranch(branchID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.LedgerMovementResponse{
			ID:           m.ID,
			RequestID:    m.RequestID,
			BranchID:     m.BranchID,
			ProductID:    m.ProductID,
			Delta:        m.Delta,
			ResultingQty: m.ResultingQty,
			UnitCost:     m.UnitCost,
			CreatedAt:    m.CreatedAt,
			CreatedBy:    m.CreatedBy,
		})
	}
	return &dto.LedgerMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toLedgerEntryResponse(e *entity.StockLedgerEntry) *dto.LedgerEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.LedgerEntryResponse{
		BranchID:  e.BranchID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		UnitValue: e.UnitValue,
		Status:    e.Status,
		UpdatedAt: e.UpdatedAt,
	}
}
