package movement_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/salon-stock/internal/application/movement"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
)

func TestReceive_TransferAcreditaDestinoYCompleta(t *testing.T) {
	f := defaultFixture(t)
	transfer, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 4}},
		Meta:         movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)

	req, err := f.manager.Receive(context.Background(), transfer.ID, actorAna)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, req.Status)
	require.NotNil(t, req.ActualDate, "la recepción fija la fecha real")
	assert.Equal(t, int64(7), f.store.stockAt(branchNorte, prodShampoo), "3 + 4 recibidas")
	assert.Equal(t, int64(6), f.store.stockAt(branchCentro, prodShampoo), "el origen no cambia al recibir")

	audits, err := (&fakeAuditRepo{f.store}).ListByRequest(transfer.ID)
	require.NoError(t, err)
	require.Len(t, audits, 2, "un débito al crear y un crédito al recibir")
	assert.Contains(t, f.events.subjects(), "movements.received")
}

func TestReceive_BorrowAcreditaSoloLoAprobado(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createTwoLineBorrow(t)
	_, err := f.approval.ApproveBorrow(context.Background(), borrow.ID, map[string]int64{
		prodShampoo: 8,
		prodTinte:   0,
	}, actorAna)
	require.NoError(t, err)

	req, err := f.manager.Receive(context.Background(), borrow.ID, actorAna)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCompleted, req.Status)
	assert.Equal(t, int64(11), f.store.stockAt(branchNorte, prodShampoo), "3 + 8 aprobadas, no las 12 solicitadas")
	assert.Equal(t, int64(8), f.store.stockAt(branchNorte, prodTinte), "la línea no aprobada no acredita")
}

func TestReceive_CreaEntradaSiElDestinoNoTeniaElProducto(t *testing.T) {
	f := defaultFixture(t)
	// Sur nunca tuvo shampoo.
	transfer, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchSur,
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 2}},
		Meta:         movement.Meta{ActorID: actorAna},
	})
	require.NoError(t, err)

	_, err = f.manager.Receive(context.Background(), transfer.ID, actorAna)
	require.NoError(t, err)

	entry, err := (&fakeLedgerRepo{f.store}).Get(branchSur, prodShampoo)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Quantity)
	assert.Equal(t, entity.LedgerStatusActive, entry.Status)
	assert.Equal(t, "45", entry.UnitValue.String(), "el valor informativo viene del costo snapshot")
}

func TestReceive_DobleRecepcion_Rechazada(t *testing.T) {
	f := defaultFixture(t)
	transfer, err := f.manager.CreateTransfer(context.Background(), movement.CreateTransferInput{
		FromBranchID: branchCentro,
		ToBranchID:   branchNorte,
		Items:        []movement.ItemInput{{ProductID: prodShampoo, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = f.manager.Receive(context.Background(), transfer.ID, actorAna)
	require.NoError(t, err)

	_, err = f.manager.Receive(context.Background(), transfer.ID, actorAna)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(7), f.store.stockAt(branchNorte, prodShampoo), "sin doble acreditación")
}

func TestReceive_BorrowPendiente_Rechazado(t *testing.T) {
	f := defaultFixture(t)
	borrow := f.createPendingBorrow(t, 3)

	_, err := f.manager.Receive(context.Background(), borrow.ID, actorAna)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se puede recibir lo que aún no fue aprobado")
}

func TestReceive_Inexistente_NotFound(t *testing.T) {
	f := defaultFixture(t)
	_, err := f.manager.Receive(context.Background(), "nope", actorAna)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
