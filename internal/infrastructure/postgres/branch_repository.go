package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	pool *pgxpool.Pool
}

// NewBranchRepository construye el adaptador de persistencia para sucursales.
func NewBranchRepository(pool *pgxpool.Pool) *BranchRepo {
	return &BranchRepo{pool: pool}
}

const branchColumns = "id, name, address, phone, status, created_at, updated_at"

// Create persiste una nueva sucursal.
func (r *BranchRepo) Create(branch *entity.Branch) error {
	query := `
		INSERT INTO branches (` + branchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(context.Background(), query,
		branch.ID, branch.Name, branch.Address, branch.Phone, branch.Status,
		branch.CreatedAt, branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID.
func (r *BranchRepo) GetByID(id string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id), "get branch")
}

// GetByName obtiene una sucursal por nombre exacto.
func (r *BranchRepo) GetByName(name string) (*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE name = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, name), "get branch by name")
}

func (r *BranchRepo) scanOne(row pgx.Row, op string) (*entity.Branch, error) {
	var b entity.Branch
	err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// Update actualiza una sucursal existente.
func (r *BranchRepo) Update(branch *entity.Branch) error {
	query := `
		UPDATE branches SET name = $2, address = $3, phone = $4, status = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query,
		branch.ID, branch.Name, branch.Address, branch.Phone, branch.Status, branch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// List lista sucursales con paginación.
func (r *BranchRepo) List(limit, offset int) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		var b entity.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
