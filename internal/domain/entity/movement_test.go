package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
)

func TestValidTransition_MaquinaDeEstados(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.StatusPending, entity.StatusInTransit, true},
		{entity.StatusPending, entity.StatusCancelled, true},
		{entity.StatusInTransit, entity.StatusCompleted, true},

		{entity.StatusPending, entity.StatusCompleted, false},
		{entity.StatusInTransit, entity.StatusPending, false},
		{entity.StatusInTransit, entity.StatusCancelled, false},
		{entity.StatusCompleted, entity.StatusPending, false},
		{entity.StatusCompleted, entity.StatusCancelled, false},
		{entity.StatusCancelled, entity.StatusPending, false},
		{entity.StatusCancelled, entity.StatusInTransit, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, entity.ValidTransition(c.from, c.to),
			"transición %s → %s", c.from, c.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, (&entity.MovementRequest{Status: entity.StatusPending}).IsTerminal())
	assert.False(t, (&entity.MovementRequest{Status: entity.StatusInTransit}).IsTerminal())
	assert.True(t, (&entity.MovementRequest{Status: entity.StatusCompleted}).IsTerminal())
	assert.True(t, (&entity.MovementRequest{Status: entity.StatusCancelled}).IsTerminal())
}

func TestComputeRequestedTotals_SumaLineas(t *testing.T) {
	req := &entity.MovementRequest{
		Items: []entity.MovementItem{
			{ProductID: "p1", RequestedQty: 4, UnitCost: decimal.NewFromInt(45)},
			{ProductID: "p2", RequestedQty: 2, UnitCost: decimal.NewFromInt(30)},
		},
	}
	req.ComputeRequestedTotals()

	assert.Equal(t, int64(6), req.TotalRequestedQty)
	assert.Equal(t, "240", req.TotalRequestedValue.String())
	assert.Equal(t, "180", req.Items[0].LineTotal.String(), "4×45")
	assert.Equal(t, "60", req.Items[1].LineTotal.String(), "2×30")
}

func TestComputeApprovedTotals_IgnoraLineasEnCero(t *testing.T) {
	req := &entity.MovementRequest{
		Items: []entity.MovementItem{
			{ProductID: "p1", RequestedQty: 12, ApprovedQty: 8, UnitCost: decimal.NewFromInt(45)},
			{ProductID: "p2", RequestedQty: 3, ApprovedQty: 0, UnitCost: decimal.NewFromInt(30)},
		},
	}
	req.ComputeApprovedTotals()

	assert.Equal(t, int64(8), req.TotalApprovedQty)
	assert.Equal(t, "360", req.TotalApprovedValue.String(), "solo la línea aprobada suma")
}

func TestApprovedItems_SoloPositivas(t *testing.T) {
	req := &entity.MovementRequest{
		Items: []entity.MovementItem{
			{ProductID: "p1", ApprovedQty: 8},
			{ProductID: "p2", ApprovedQty: 0},
		},
	}
	items := req.ApprovedItems()
	assert.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestItem_BuscaPorProducto(t *testing.T) {
	req := &entity.MovementRequest{
		Items: []entity.MovementItem{{ProductID: "p1"}, {ProductID: "p2"}},
	}
	assert.NotNil(t, req.Item("p2"))
	assert.Nil(t, req.Item("p3"))
}
