package movement

import (
	"context"

	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// Get obtiene una solicitud con sus ítems.
func (m *Manager) Get(ctx context.Context, requestID string) (*entity.MovementRequest, error) {
	req, err := m.movRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// List lista solicitudes según el filtro (sucursal, dirección, estado, tipo).
func (m *Manager) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRequest, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return m.movRepo.List(filter)
}
