package repository

import "github.com/tu-usuario/salon-stock/internal/domain/entity"

// ProductRepository define el puerto de persistencia para el catálogo (DIP).
// El motor de movimientos lo usa solo como lectura (nombre y precio snapshot).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	List(limit, offset int) ([]*entity.Product, error)
}
