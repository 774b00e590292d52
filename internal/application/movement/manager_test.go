package movement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture compartida: dos sucursales con catálogo común (shampoo, tinte) más
// una tercera vacía, y los motores armados sobre los dobles en memoria.
// ──────────────────────────────────────────────────────────────────────────────

const (
	branchCentro = "00000000-0000-0000-0000-0000000000a1"
	branchNorte  = "00000000-0000-0000-0000-0000000000a2"
	branchSur    = "00000000-0000-0000-0000-0000000000a3"

	prodShampoo = "00000000-0000-0000-0000-0000000000p1"
	prodTinte   = "00000000-0000-0000-0000-0000000000p2"
	prodCera    = "00000000-0000-0000-0000-0000000000p3"

	actorAna = "00000000-0000-0000-0000-0000000000u1"
)

type fixture struct {
	store    *fakeStore
	events   *fakePublisher
	manager  *movement.Manager
	approval *movement.ApprovalEngine
	resolver *movement.Resolver
	cache    *fakeCache
}

func newFixture(t *testing.T, cfg movement.ManagerConfig) *fixture {
	t.Helper()
	s := newFakeStore()
	s.seedBranch(branchCentro, "Centro")
	s.seedBranch(branchNorte, "Norte")
	s.seedBranch(branchSur, "Sur")
	s.seedProduct(prodShampoo, "Shampoo Profesional 1L", 45)
	s.seedProduct(prodTinte, "Tinte Rubio Ceniza", 30)
	s.seedProduct(prodCera, "Cera Modeladora", 18)
	s.seedStock(branchCentro, prodShampoo, 10)
	s.seedStock(branchCentro, prodTinte, 5)
	s.seedStock(branchNorte, prodShampoo, 3)
	s.seedStock(branchNorte, prodTinte, 8)
	// Cera solo existe en Centro: queda fuera del catálogo común Centro↔Norte.
	s.seedStock(branchCentro, prodCera, 4)

	events := &fakePublisher{}
	cache := newFakeCache()
	log := logger.Nop()
	tx := &fakeTxRunner{s}
	movRepo := &fakeMovementRepo{s}
	ledgerRepo := &fakeLedgerRepo{s}

	return &fixture{
		store:    s,
		events:   events,
		cache:    cache,
		manager:  movement.NewManager(tx, movRepo, ledgerRepo, &fakeBranchRepo{s}, &fakeProductRepo{s}, events, log, cfg),
		approval: movement.NewApprovalEngine(tx, movRepo, ledgerRepo, events, log),
		resolver: movement.NewResolver(movRepo, ledgerRepo, cache, log),
	}
}

func defaultFixture(t *testing.T) *fixture {
	return newFixture(t, movement.ManagerConfig{DropZeroFulfillItems: true})
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfers (push: descuento inmediato)
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_DebitaYQuedaEnTransito(t *testing.T) {
	f := defaultFixture(t)

	req, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items: []movement.ItemInput{
			{ProductID: prodShampoo, Quantity: 4},
			{ProductID: prodTinte, Quantity: 2},
		},
		Meta: movement.Meta{ActorID: actorAna, Reason: "reposición semanal"},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.KindTransfer, req.Kind)
	assert.Equal(t, entity.StatusInTransit, req.Status, "el transfer nace en tránsito, no pending")
	assert.Equal(t, branchCentro, req.InitiatingBranchID, "en un push la iniciadora es la origen")
	assert.Equal(t, int64(6), req.TotalRequestedQty)
	assert.Equal(t, "210", req.TotalRequestedValue.String(), "4×45 + 2×30")

	assert.Equal(t, int64(6), f.store.stockAt(branchCentro, prodShampoo), "descuento inmediato en origen")
	assert.Equal(t, int64(3), f.store.stockAt(branchCentro, prodTinte))
	assert.Equal(t, int64(3), f.store.stockAt(branchNorte, prodShampoo), "el destino no se acredita hasta recibir")

	assert.Len(t, f.store.audits, 2, "un débito auditado por línea")
	assert.Equal(t, []string{"movements.created"}, f.events.subjects())
}

func TestCreateTransfer_DestinoPorNombre(t *testing.T) {
	f := defaultFixture(t)

	req, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchName: "Norte",
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 1}},
		Meta:         movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)
	assert.Equal(t, branchNorte, req.ToBranchID, "el nombre debe resolverse al ID de la sucursal")
}

func TestCreateTransfer_MismaSucursal_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchCentro,
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
}

func TestCreateTransfer_DestinoInexistente_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   "no-existe",
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
}

// El débito es todo-o-nada: si la segunda línea no tiene stock, la primera
// tampoco debe quedar descontada ni la solicitud persistida.
func TestCreateTransfer_StockInsuficiente_TodoONada(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items: []movement.ItemInput{
			{ProductID: prodShampoo, Quantity: 4},
			{ProductID: prodTinte, Quantity: 99},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, prodTinte, domain.OffendingProduct(err), "el error debe señalar la línea ofensora")

	assert.Equal(t, int64(10), f.store.stockAt(branchCentro, prodShampoo), "rollback: nada descontado")
	assert.Equal(t, int64(5), f.store.stockAt(branchCentro, prodTinte))
	assert.Empty(t, f.store.movements, "rollback: solicitud no persistida")
	assert.Empty(t, f.store.audits, "rollback: sin filas de auditoría")
	assert.Empty(t, f.events.subjects(), "sin evento si la creación falló")
}

func TestCreateTransfer_CantidadCero_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestCreateTransfer_LineaDuplicada_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items: []movement.ItemInput{
			{ProductID: prodShampoo, Quantity: 1},
			{ProductID: prodShampoo, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Equal(t, prodShampoo, domain.OffendingProduct(err))
}

func TestCreateTransfer_ProductoInexistente_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items:        []movement.ItemInput{{ProductID: "fantasma", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestCreateTransfer_SinItems_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrows (pull: sin débito hasta aprobar)
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBorrow_QuedaPendienteSinTocarLedger(t *testing.T) {
	f := defaultFixture(t)

	req, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchCentro,
		Items:              []movement.ItemInput{{ProductID: prodShampoo, Quantity: 6}},
		Meta:               movement.Meta{ActorID: actorAna, Reason: "se acabó el shampoo"},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.KindBorrow, req.Kind)
	assert.Equal(t, entity.StatusPending, req.Status)
	assert.Equal(t, branchNorte, req.InitiatingBranchID, "en un pull la iniciadora es la receptora")
	assert.Equal(t, branchCentro, req.FromBranchID, "la prestamista es la que descontará al aprobar")
	assert.Equal(t, branchNorte, req.ToBranchID)

	assert.Equal(t, int64(10), f.store.stockAt(branchCentro, prodShampoo), "la prestamista no descuenta nada aún")
	assert.Empty(t, f.store.audits, "sin auditoría de ledger hasta que se apruebe")
	assert.Equal(t, []string{"movements.created"}, f.events.subjects())
}

func TestCreateBorrow_ProductoFueraDelCatalogoComun_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	// La cera solo existe en Centro: Norte no la maneja, no puede pedirla.
	_, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchCentro,
		Items:              []movement.ItemInput{{ProductID: prodCera, Quantity: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
	assert.Equal(t, prodCera, domain.OffendingProduct(err))
}

func TestCreateBorrow_MismaSucursal_Rechazado(t *testing.T) {
	f := defaultFixture(t)

	_, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchNorte,
		Items:              []movement.ItemInput{{ProductID: prodShampoo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer que atiende un borrow pendiente (fulfills_request_id)
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) createPendingBorrow(t *testing.T, qty int64) *entity.MovementRequest {
	t.Helper()
	req, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchCentro,
		Items:              []movement.ItemInput{{ProductID: prodShampoo, Quantity: qty}},
		Meta:               movement.Meta{ActorID: actorAna, Reason: "préstamo urgente"},
	})
	require.NoError(t, err)
	return req
}

func TestCreateTransfer_AtiendeBorrow_DerivaDestinoEItems(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 4)

	req, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
		Meta:              movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)

	assert.Equal(t, borrow.ID, req.FulfillsRequestID)
	assert.Equal(t, branchNorte, req.ToBranchID, "el destino se deriva del borrow")
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(4), req.Items[0].RequestedQty)
	assert.Equal(t, "préstamo urgente", req.Reason, "el motivo se hereda del borrow")
	assert.Equal(t, int64(6), f.store.stockAt(branchCentro, prodShampoo))
}

func TestCreateTransfer_AtiendeBorrow_RecortaALoDisponible(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 25) // Centro solo tiene 10

	req, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
		Meta:              movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)

	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(10), req.Items[0].RequestedQty, "min(solicitado, disponible)")
	assert.Equal(t, int64(0), f.store.stockAt(branchCentro, prodShampoo))

	// El borrow original no se muta por el recorte.
	stored := f.store.movements[borrow.ID]
	assert.Equal(t, int64(25), stored.Items[0].RequestedQty)
	assert.Equal(t, entity.StatusPending, stored.Status)
}

func TestCreateTransfer_AtiendeBorrow_LineaSinStockSeCae(t *testing.T) {
	f := defaultFixture(t)
	borrow, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchCentro,
		Items: []movement.ItemInput{
			{ProductID: prodShampoo, Quantity: 2},
			{ProductID: prodTinte, Quantity: 3},
		},
	})
	require.NoError(t, err)

	// El tinte de Centro se agota entre el borrow y el transfer.
	f.store.seedStock(branchCentro, prodTinte, 0)

	req, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
		Meta:              movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)

	require.Len(t, req.Items, 1, "la línea sin stock se cae en silencio")
	assert.Equal(t, prodShampoo, req.Items[0].ProductID)
	assert.Equal(t, int64(2), req.TotalRequestedQty)
}

func TestCreateTransfer_AtiendeBorrow_SinRecorteSilencioso_Falla(t *testing.T) {
	f := newFixture(t, movement.ManagerConfig{DropZeroFulfillItems: false})
	borrow, err := f.manager.CreateBorrow(context.Background(), movement.CreateBorrowInput{
		InitiatingBranchID: branchNorte,
		FromBranchID:       branchCentro,
		Items: []movement.ItemInput{
			{ProductID: prodShampoo, Quantity: 2},
			{ProductID: prodTinte, Quantity: 3},
		},
	})
	require.NoError(t, err)
	f.store.seedStock(branchCentro, prodTinte, 0)

	_, err = f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
		Meta:              movement.Meta{ActorID: actorAna},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, prodTinte, domain.OffendingProduct(err))
	assert.Equal(t, int64(10), f.store.stockAt(branchCentro, prodShampoo), "rollback completo")
}

func TestCreateTransfer_AtiendeBorrow_TodoSinStock_Falla(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 5)
	f.store.seedStock(branchCentro, prodShampoo, 0)

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"si ninguna línea es atendible no se crea un transfer vacío")
}

func TestCreateTransfer_AtiendeBorrow_DesdeOtraSucursal_Rechazado(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 2) // pedido a Centro

	_, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchSur, // Sur no es la prestamista
		FulfillsRequestID: borrow.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBranch)
}

func TestCreateTransfer_AtiendeBorrowNoPendiente_Rechazado(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 2)
	_, err := f.approval.DeclineBorrow(context.Background(), borrow.ID, "sin stock", actorAna)
	require.NoError(t, err)

	_, err = f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID:      branchCentro,
		FulfillsRequestID: borrow.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_Inexistente_NotFound(t *testing.T) {
	f := defaultFixture(t)
	_, err := f.manager.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
