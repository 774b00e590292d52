package movement

import (
	"time"

	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
	"github.com/tu-usuario/salon-stock/pkg/logger"
)

// Manager crea solicitudes de movimiento entre sucursales: transfers (push,
// descuento inmediato) y borrows (pull, sin descuento hasta aprobar), y
// procesa la recepción física. Todos los descuentos/acreditaciones pasan por
// el camino atómico de ledger.go dentro de una transacción del TxRunner.
type Manager struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	ledgerRepo  repository.StockLedgerRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	events      EventPublisher
	log         *logger.Logger

	// dropZeroFulfillItems replica el comportamiento observado del sistema
	// original: al atender un borrow, las líneas sin stock resoluble se caen
	// en silencio del transfer. Con false, la creación falla con el ítem ofensor.
	dropZeroFulfillItems bool
}

// ManagerConfig opciones de comportamiento del Manager.
type ManagerConfig struct {
	DropZeroFulfillItems bool
}

// NewManager construye el Manager.
func NewManager(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	ledgerRepo repository.StockLedgerRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	events EventPublisher,
	log *logger.Logger,
	cfg ManagerConfig,
) *Manager {
	return &Manager{
		txRunner:             txRunner,
		movRepo:              movRepo,
		ledgerRepo:           ledgerRepo,
		branchRepo:           branchRepo,
		productRepo:          productRepo,
		events:               events,
		log:                  log,
		dropZeroFulfillItems: cfg.DropZeroFulfillItems,
	}
}

// ItemInput una línea solicitada (producto y cantidad).
type ItemInput struct {
	ProductID string
	Quantity  int64
}

// Meta campos comunes de creación.
type Meta struct {
	ActorID      string
	Reason       string
	Notes        string
	ExpectedDate *time.Time
}

// MovementEvent payload JSON de los eventos de ciclo de vida.
type MovementEvent struct {
	RequestID    string `json:"request_id"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	FromBranchID string `json:"from_branch_id"`
	ToBranchID   string `json:"to_branch_id"`
	Actor        string `json:"actor,omitempty"`
}

// publish emite un evento de ciclo de vida tras el commit. Best effort.
func publish(events EventPublisher, log *logger.Logger, subject string, req *entity.MovementRequest, actor string) {
	if events == nil {
		return
	}
	events.Publish(subject, MovementEvent{
		RequestID:    req.ID,
		Kind:         req.Kind,
		Status:       req.Status,
		FromBranchID: req.FromBranchID,
		ToBranchID:   req.ToBranchID,
		Actor:        actor,
	})
	if log != nil {
		log.Debug().Str("subject", subject).Str("request_id", req.ID).Msg("evento publicado")
	}
}

// snapshotItems valida las líneas y las materializa con nombre y costo
// unitario tomados del catálogo en este momento (los precios pueden cambiar
// después sin afectar solicitudes históricas).
func (m *Manager) snapshotItems(items []ItemInput) ([]entity.MovementItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := make([]entity.MovementItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, in := range items {
		if in.ProductID == "" || in.Quantity <= 0 {
			return nil, domain.NewItemError(domain.ErrInvalidItem, in.ProductID)
		}
		if seen[in.ProductID] {
			return nil, domain.NewItemError(domain.ErrInvalidItem, in.ProductID)
		}
		seen[in.ProductID] = true
		product, err := m.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.NewItemError(domain.ErrInvalidItem, in.ProductID)
		}
		out = append(out, entity.MovementItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			RequestedQty: in.Quantity,
			UnitCost:     product.UnitPrice,
		})
	}
	return out, nil
}

// resolveBranch obtiene una sucursal por ID o, si no hay ID, por nombre.
func (m *Manager) resolveBranch(id, name string) (*entity.Branch, error) {
	if id != "" {
		return m.branchRepo.GetByID(id)
	}
	if name != "" {
		return m.branchRepo.GetByName(name)
	}
	return nil, nil
}
