package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

var _ repository.LedgerMovementRepository = (*LedgerMovementRepo)(nil)

// LedgerMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Tabla append-only: las filas de auditoría nunca se actualizan ni borran.
type LedgerMovementRepo struct {
	q Querier
}

// NewLedgerMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerMovementRepository(q Querier) *LedgerMovementRepo {
	return &LedgerMovementRepo{q: q}
}

const ledgerMovementColumns = "id, request_id, branch_id, product_id, delta, resulting_qty, unit_cost, created_at, created_by"

// Create persiste una fila de auditoría de ledger.
func (r *LedgerMovementRepo) Create(movement *entity.LedgerMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_movements (` + ledgerMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.RequestID, movement.BranchID, movement.ProductID,
		movement.Delta, movement.ResultingQty, movement.UnitCost,
		movement.CreatedAt, nullable(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create ledger movement: %w", err)
	}
	return nil
}

// ListByRequest lista la auditoría de una solicitud de movimiento.
func (r *LedgerMovementRepo) ListByRequest(requestID string) ([]*entity.LedgerMovement, error) {
	query := `
		SELECT ` + ledgerMovementColumns + `
		FROM ledger_movements WHERE request_id = $1 ORDER BY created_at`
	return r.query(query, requestID)
}

// ListByBranch lista la auditoría de una sucursal en un rango de fechas.
func (r *LedgerMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerMovement, error) {
	query := `
		SELECT ` + ledgerMovementColumns + `
		FROM ledger_movements WHERE branch_id = $1`
	args := []any{branchID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.query(query, args...)
}

func (r *LedgerMovementRepo) query(query string, args ...any) ([]*entity.LedgerMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerMovement
	for rows.Next() {
		var m entity.LedgerMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.RequestID, &m.BranchID, &m.ProductID,
			&m.Delta, &m.ResultingQty, &m.UnitCost, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan ledger movement: %w", err)
		}
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
