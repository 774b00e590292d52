package repository

import "github.com/tu-usuario/salon-stock/internal/domain/entity"

// StockLedgerRepository define el puerto para consultar/actualizar el ledger
// por (sucursal, producto). Dentro de transacciones garantiza consistencia vía
// GetForUpdate; fuera de ellas Get es una lectura puntual sin más garantía que
// "al momento de leer".
type StockLedgerRepository interface {
	Get(branchID, productID string) (*entity.StockLedgerEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para el check-and-mutate atómico.
	GetForUpdate(branchID, productID string) (*entity.StockLedgerEntry, error)
	Upsert(entry *entity.StockLedgerEntry) error
	Deactivate(branchID, productID string) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.StockLedgerEntry, error)
	// CommonCatalog devuelve los productos con entrada activa y cantidad positiva
	// en ambas sucursales (intersección de catálogos).
	CommonCatalog(branchA, branchB string) ([]string, error)
}
