package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL
// (usable con pool o tx). La cabecera vive en movement_requests y las líneas
// en movement_items, ordenadas por posición.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, kind, initiating_branch_id, from_branch_id, to_branch_id,
	requested_date, expected_date, actual_date, status, reason, notes,
	total_requested_qty, total_requested_value,
	total_approved_qty, total_approved_value,
	approved_by, approved_at, declined_by, declined_at, declined_reason,
	fulfills_request_id, created_by, created_at`

// Create persiste la cabecera y sus ítems. Debe llamarse dentro de una
// transacción cuando la creación acompaña débitos de ledger.
func (r *MovementRepo) Create(req *entity.MovementRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movement_requests (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.Kind, req.InitiatingBranchID, req.FromBranchID, req.ToBranchID,
		req.RequestedDate, req.ExpectedDate, req.ActualDate, req.Status, req.Reason, req.Notes,
		req.TotalRequestedQty, req.TotalRequestedValue,
		req.TotalApprovedQty, req.TotalApprovedValue,
		nullable(req.ApprovedBy), req.ApprovedAt, nullable(req.DeclinedBy), req.DeclinedAt, nullable(req.DeclinedReason),
		nullable(req.FulfillsRequestID), nullable(req.CreatedBy), req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement request: %w", err)
	}

	itemQuery := `
		INSERT INTO movement_items (request_id, position, product_id, product_name, requested_qty, unit_cost, line_total, approved_qty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, it := range req.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			req.ID, i, it.ProductID, it.ProductName, it.RequestedQty, it.UnitCost, it.LineTotal, it.ApprovedQty,
		)
		if err != nil {
			return fmt.Errorf("create movement item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una solicitud con sus ítems. Devuelve (nil, nil) si no existe.
func (r *MovementRepo) GetByID(id string) (*entity.MovementRequest, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_requests WHERE id = $1`
	req, err := r.scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement request: %w", err)
	}
	if err := r.loadItems(req); err != nil {
		return nil, err
	}
	return req, nil
}

// List lista solicitudes según el filtro (sucursal, dirección, estado, tipo).
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.MovementRequest, error) {
	query := `SELECT ` + movementColumns + ` FROM movement_requests WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.BranchID != "" {
		switch filter.Direction {
		case "incoming":
			query += fmt.Sprintf(" AND to_branch_id = $%d", pos)
			args = append(args, filter.BranchID)
			pos++
		case "outgoing":
			query += fmt.Sprintf(" AND from_branch_id = $%d", pos)
			args = append(args, filter.BranchID)
			pos++
		default:
			query += fmt.Sprintf(" AND (from_branch_id = $%d OR to_branch_id = $%d)", pos, pos+1)
			args = append(args, filter.BranchID, filter.BranchID)
			pos += 2
		}
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	return r.queryRequests(query, args...)
}

// ListPendingBorrowsBetween devuelve los borrows pendientes donde from presta y to recibe.
func (r *MovementRepo) ListPendingBorrowsBetween(fromBranchID, toBranchID string) ([]*entity.MovementRequest, error) {
	query := `
		SELECT ` + movementColumns + ` FROM movement_requests
		WHERE kind = $1 AND status = $2 AND from_branch_id = $3 AND to_branch_id = $4
		ORDER BY created_at ASC`
	return r.queryRequests(query, entity.KindBorrow, entity.StatusPending, fromBranchID, toBranchID)
}

// Transition persiste el cambio de estado y los campos de aprobación/rechazo/
// recepción en una sola sentencia condicionada al estado esperado. Si la fila
// ya no está en expectStatus (carrera con otro caller o estado terminal),
// devuelve domain.ErrInvalidState y no toca nada.
func (r *MovementRepo) Transition(req *entity.MovementRequest, expectStatus string) error {
	query := `
		UPDATE movement_requests SET
			status = $1, actual_date = $2,
			total_approved_qty = $3, total_approved_value = $4,
			approved_by = $5, approved_at = $6,
			declined_by = $7, declined_at = $8, declined_reason = $9
		WHERE id = $10 AND status = $11`
	tag, err := r.q.Exec(context.Background(), query,
		req.Status, req.ActualDate,
		req.TotalApprovedQty, req.TotalApprovedValue,
		nullable(req.ApprovedBy), req.ApprovedAt,
		nullable(req.DeclinedBy), req.DeclinedAt, nullable(req.DeclinedReason),
		req.ID, expectStatus,
	)
	if err != nil {
		return fmt.Errorf("transition movement request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}

	// Cantidades aprobadas por línea (solo cambia algo en aprobaciones de borrow).
	itemQuery := `UPDATE movement_items SET approved_qty = $1 WHERE request_id = $2 AND product_id = $3`
	for _, it := range req.Items {
		if _, err := r.q.Exec(context.Background(), itemQuery, it.ApprovedQty, req.ID, it.ProductID); err != nil {
			return fmt.Errorf("update item approved qty: %w", err)
		}
	}
	return nil
}

func (r *MovementRepo) queryRequests(query string, args ...any) ([]*entity.MovementRequest, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movement requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRequest
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement request: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range list {
		if err := r.loadItems(req); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *MovementRepo) scanRequest(row pgx.Row) (*entity.MovementRequest, error) {
	var m entity.MovementRequest
	var approvedBy, declinedBy, declinedReason, fulfills, createdBy *string
	err := row.Scan(
		&m.ID, &m.Kind, &m.InitiatingBranchID, &m.FromBranchID, &m.ToBranchID,
		&m.RequestedDate, &m.ExpectedDate, &m.ActualDate, &m.Status, &m.Reason, &m.Notes,
		&m.TotalRequestedQty, &m.TotalRequestedValue,
		&m.TotalApprovedQty, &m.TotalApprovedValue,
		&approvedBy, &m.ApprovedAt, &declinedBy, &m.DeclinedAt, &declinedReason,
		&fulfills, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ApprovedBy = deref(approvedBy)
	m.DeclinedBy = deref(declinedBy)
	m.DeclinedReason = deref(declinedReason)
	m.FulfillsRequestID = deref(fulfills)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func (r *MovementRepo) loadItems(req *entity.MovementRequest) error {
	query := `
		SELECT product_id, product_name, requested_qty, unit_cost, line_total, approved_qty
		FROM movement_items WHERE request_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, req.ID)
	if err != nil {
		return fmt.Errorf("load movement items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.MovementItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.RequestedQty, &it.UnitCost, &it.LineTotal, &it.ApprovedQty); err != nil {
			return fmt.Errorf("scan movement item: %w", err)
		}
		req.Items = append(req.Items, it)
	}
	return rows.Err()
}
