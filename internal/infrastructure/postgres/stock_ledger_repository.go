package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación de StockLedgerRepository sobre PostgreSQL
// (usable con pool o tx).
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador de ledger. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

const ledgerColumns = "branch_id, product_id, quantity, unit_value, status, updated_at"

// Get obtiene la entrada de ledger de un producto en una sucursal. Lectura
// puntual: si no existe fila, devuelve una entrada en cero.
func (r *StockLedgerRepo) Get(branchID, productID string) (*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE branch_id = $1 AND product_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, branchID, productID), branchID, productID, "get ledger entry")
}

// GetForUpdate obtiene la entrada y bloquea la fila (SELECT FOR UPDATE) para
// el check-and-mutate atómico del motor.
//
// FOR UPDATE no puede bloquear una fila que no existe: dos créditos
// concurrentes sobre una clave (sucursal, producto) nueva leerían ambos
// cantidad 0 sin serializarse y uno pisaría al otro. Por eso primero se
// materializa la fila en cero; el SELECT posterior siempre tiene fila que
// bloquear.
func (r *StockLedgerRepo) GetForUpdate(branchID, productID string) (*entity.StockLedgerEntry, error) {
	ensure := `
		INSERT INTO stock_ledger (branch_id, product_id, quantity, unit_value, status, updated_at)
		VALUES ($1, $2, 0, 0, $3, now())
		ON CONFLICT (branch_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), ensure, branchID, productID, entity.LedgerStatusActive); err != nil {
		return nil, fmt.Errorf("ensure ledger entry: %w", err)
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE branch_id = $1 AND product_id = $2
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, branchID, productID), branchID, productID, "get ledger entry for update")
}

func (r *StockLedgerRepo) scanOne(row pgx.Row, branchID, productID, op string) (*entity.StockLedgerEntry, error) {
	var e entity.StockLedgerEntry
	err := row.Scan(&e.BranchID, &e.ProductID, &e.Quantity, &e.UnitValue, &e.Status, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLedgerEntry{
				BranchID:  branchID,
				ProductID: productID,
				Quantity:  0,
				UnitValue: decimal.Zero,
				Status:    entity.LedgerStatusActive,
			}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

// Upsert inserta o actualiza la cantidad del ledger (por sucursal y producto).
func (r *StockLedgerRepo) Upsert(entry *entity.StockLedgerEntry) error {
	query := `
		INSERT INTO stock_ledger (branch_id, product_id, quantity, unit_value, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (branch_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_value = EXCLUDED.unit_value,
		              status = EXCLUDED.status, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		entry.BranchID, entry.ProductID, entry.Quantity, entry.UnitValue, entry.Status,
	)
	if err != nil {
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	return nil
}

// Deactivate marca la entrada como inactiva. Las entradas nunca se borran.
func (r *StockLedgerRepo) Deactivate(branchID, productID string) error {
	query := `
		UPDATE stock_ledger SET status = $3, updated_at = now()
		WHERE branch_id = $1 AND product_id = $2`
	_, err := r.q.Exec(context.Background(), query, branchID, productID, entity.LedgerStatusInactive)
	if err != nil {
		return fmt.Errorf("deactivate ledger entry: %w", err)
	}
	return nil
}

// ListByBranch lista las entradas de ledger de una sucursal.
func (r *StockLedgerRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM stock_ledger WHERE branch_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger by branch: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		if err := rows.Scan(&e.BranchID, &e.ProductID, &e.Quantity, &e.UnitValue, &e.Status, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// CommonCatalog devuelve los productos con entrada activa y cantidad positiva
// en ambas sucursales (intersección de catálogos).
func (r *StockLedgerRepo) CommonCatalog(branchA, branchB string) ([]string, error) {
	query := `
		SELECT product_id FROM stock_ledger
		WHERE branch_id = $1 AND status = 'active' AND quantity > 0
		INTERSECT
		SELECT product_id FROM stock_ledger
		WHERE branch_id = $2 AND status = 'active' AND quantity > 0
		ORDER BY product_id`
	rows, err := r.q.Query(context.Background(), query, branchA, branchB)
	if err != nil {
		return nil, fmt.Errorf("common catalog: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
