package movement_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. El fakeTxRunner emula el
// rollback de PostgreSQL con snapshot/restore: si fn devuelve error, el estado
// queda exactamente como antes — eso permite verificar el todo-o-nada del motor
// sin base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	branches  map[string]*entity.Branch
	products  map[string]*entity.Product
	ledger    map[string]entity.StockLedgerEntry // key: branchID|productID
	movements map[string]*entity.MovementRequest
	audits    []entity.LedgerMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		branches:  make(map[string]*entity.Branch),
		products:  make(map[string]*entity.Product),
		ledger:    make(map[string]entity.StockLedgerEntry),
		movements: make(map[string]*entity.MovementRequest),
	}
}

func ledgerKey(branchID, productID string) string { return branchID + "|" + productID }

func (s *fakeStore) seedBranch(id, name string) {
	s.branches[id] = &entity.Branch{ID: id, Name: name, Status: entity.BranchStatusActive}
}

func (s *fakeStore) seedProduct(id, name string, price int64) {
	s.products[id] = &entity.Product{ID: id, SKU: "SKU-" + id, Name: name, UnitPrice: decimal.NewFromInt(price), Status: "active"}
}

func (s *fakeStore) seedStock(branchID, productID string, qty int64) {
	s.ledger[ledgerKey(branchID, productID)] = entity.StockLedgerEntry{
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  qty,
		UnitValue: s.products[productID].UnitPrice,
		Status:    entity.LedgerStatusActive,
	}
}

func (s *fakeStore) stockAt(branchID, productID string) int64 {
	return s.ledger[ledgerKey(branchID, productID)].Quantity
}

func cloneMovement(req *entity.MovementRequest) *entity.MovementRequest {
	c := *req
	c.Items = append([]entity.MovementItem(nil), req.Items...)
	return &c
}

// ── BranchRepository ─────────────────────────────────────────────────────────

type fakeBranchRepo struct{ s *fakeStore }

func (r *fakeBranchRepo) Create(b *entity.Branch) error { r.s.branches[b.ID] = b; return nil }

func (r *fakeBranchRepo) GetByID(id string) (*entity.Branch, error) {
	return r.s.branches[id], nil
}

func (r *fakeBranchRepo) GetByName(name string) (*entity.Branch, error) {
	for _, b := range r.s.branches {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBranchRepo) Update(b *entity.Branch) error { r.s.branches[b.ID] = b; return nil }

func (r *fakeBranchRepo) List(limit, offset int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.s.branches {
		out = append(out, b)
	}
	return out, nil
}

// ── ProductRepository ────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	return out, nil
}

// ── StockLedgerRepository ────────────────────────────────────────────────────

type fakeLedgerRepo struct{ s *fakeStore }

func (r *fakeLedgerRepo) Get(branchID, productID string) (*entity.StockLedgerEntry, error) {
	if e, ok := r.s.ledger[ledgerKey(branchID, productID)]; ok {
		c := e
		return &c, nil
	}
	// Misma semántica que el adaptador de PostgreSQL: sin fila = entrada en cero.
	return &entity.StockLedgerEntry{
		BranchID:  branchID,
		ProductID: productID,
		UnitValue: decimal.Zero,
		Status:    entity.LedgerStatusActive,
	}, nil
}

func (r *fakeLedgerRepo) GetForUpdate(branchID, productID string) (*entity.StockLedgerEntry, error) {
	return r.Get(branchID, productID)
}

func (r *fakeLedgerRepo) Upsert(entry *entity.StockLedgerEntry) error {
	r.s.ledger[ledgerKey(entry.BranchID, entry.ProductID)] = *entry
	return nil
}

func (r *fakeLedgerRepo) Deactivate(branchID, productID string) error {
	e := r.s.ledger[ledgerKey(branchID, productID)]
	e.BranchID, e.ProductID = branchID, productID
	e.Status = entity.LedgerStatusInactive
	r.s.ledger[ledgerKey(branchID, productID)] = e
	return nil
}

func (r *fakeLedgerRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.s.ledger {
		if e.BranchID == branchID {
			c := e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) CommonCatalog(branchA, branchB string) ([]string, error) {
	inA := make(map[string]bool)
	for _, e := range r.s.ledger {
		if e.BranchID == branchA && e.Status == entity.LedgerStatusActive && e.Quantity > 0 {
			inA[e.ProductID] = true
		}
	}
	var out []string
	for _, e := range r.s.ledger {
		if e.BranchID == branchB && e.Status == entity.LedgerStatusActive && e.Quantity > 0 && inA[e.ProductID] {
			out = append(out, e.ProductID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ── LedgerMovementRepository ─────────────────────────────────────────────────

type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Create(m *entity.LedgerMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.audits = append(r.s.audits, *m)
	return nil
}

func (r *fakeAuditRepo) ListByRequest(requestID string) ([]*entity.LedgerMovement, error) {
	var out []*entity.LedgerMovement
	for i := range r.s.audits {
		if r.s.audits[i].RequestID == requestID {
			c := r.s.audits[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeAuditRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerMovement, error) {
	var out []*entity.LedgerMovement
	for i := range r.s.audits {
		if r.s.audits[i].BranchID == branchID {
			c := r.s.audits[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── MovementRepository ───────────────────────────────────────────────────────

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(req *entity.MovementRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	r.s.movements[req.ID] = cloneMovement(req)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.MovementRequest, error) {
	req, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	return cloneMovement(req), nil
}

func (r *fakeMovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementRequest, error) {
	var out []*entity.MovementRequest
	for _, req := range r.s.movements {
		if filter.BranchID != "" {
			switch filter.Direction {
			case "incoming":
				if req.ToBranchID != filter.BranchID {
					continue
				}
			case "outgoing":
				if req.FromBranchID != filter.BranchID {
					continue
				}
			default:
				if req.FromBranchID != filter.BranchID && req.ToBranchID != filter.BranchID {
					continue
				}
			}
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.Kind != "" && req.Kind != filter.Kind {
			continue
		}
		out = append(out, cloneMovement(req))
	}
	return out, nil
}

func (r *fakeMovementRepo) ListPendingBorrowsBetween(fromBranchID, toBranchID string) ([]*entity.MovementRequest, error) {
	var out []*entity.MovementRequest
	for _, req := range r.s.movements {
		if req.Kind == entity.KindBorrow && req.Status == entity.StatusPending &&
			req.FromBranchID == fromBranchID && req.ToBranchID == toBranchID {
			out = append(out, cloneMovement(req))
		}
	}
	return out, nil
}

// Transition replica el compare-and-set del adaptador de PostgreSQL: si la fila
// persistida ya no está en expectStatus, ErrInvalidState y sin cambios.
func (r *fakeMovementRepo) Transition(req *entity.MovementRequest, expectStatus string) error {
	cur, ok := r.s.movements[req.ID]
	if !ok || cur.Status != expectStatus {
		return domain.ErrInvalidState
	}
	r.s.movements[req.ID] = cloneMovement(req)
	return nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	ledgerRepo repository.StockLedgerRepository,
	auditRepo repository.LedgerMovementRepository,
) error) error {
	ledgerSnap := make(map[string]entity.StockLedgerEntry, len(t.s.ledger))
	for k, v := range t.s.ledger {
		ledgerSnap[k] = v
	}
	movSnap := make(map[string]*entity.MovementRequest, len(t.s.movements))
	for k, v := range t.s.movements {
		movSnap[k] = cloneMovement(v)
	}
	auditSnap := append([]entity.LedgerMovement(nil), t.s.audits...)

	err := fn(&fakeMovementRepo{t.s}, &fakeLedgerRepo{t.s}, &fakeAuditRepo{t.s})
	if err != nil {
		t.s.ledger = ledgerSnap
		t.s.movements = movSnap
		t.s.audits = auditSnap
	}
	return err
}

// ── EventPublisher y Cache ───────────────────────────────────────────────────

type recordedEvent struct {
	Subject string
	Payload any
}

type fakePublisher struct{ events []recordedEvent }

func (p *fakePublisher) Publish(subject string, payload any) {
	p.events = append(p.events, recordedEvent{Subject: subject, Payload: payload})
}

func (p *fakePublisher) subjects() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Subject)
	}
	return out
}

type fakeCache struct {
	values map[string]string
	sets   int
	hits   int
}

func newFakeCache() *fakeCache { return &fakeCache{values: make(map[string]string)} }

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := c.values[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	c.sets++
	return nil
}

var _ movement.Cache = (*fakeCache)(nil)
var _ movement.EventPublisher = (*fakePublisher)(nil)
var _ movement.TxRunner = (*fakeTxRunner)(nil)
var _ repository.MovementRepository = (*fakeMovementRepo)(nil)
var _ repository.StockLedgerRepository = (*fakeLedgerRepo)(nil)
var _ repository.LedgerMovementRepository = (*fakeAuditRepo)(nil)
var _ repository.BranchRepository = (*fakeBranchRepo)(nil)
var _ repository.ProductRepository = (*fakeProductRepo)(nil)
