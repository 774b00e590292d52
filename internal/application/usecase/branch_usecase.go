package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/salon-stock/internal/application/dto"
	"github.com/tu-usuario/salon-stock/internal/domain"
	"github.com/tu-usuario/salon-stock/internal/domain/entity"
	"github.com/tu-usuario/salon-stock/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una sucursal. El nombre es único: sirve como identificador
// alterno al crear transfers.
func (uc *BranchUseCase) Create(in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	existing, err := uc.repo.GetByName(in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Status:    entity.BranchStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *BranchUseCase) GetByID(id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, nil
	}
	return toBranchResponse(branch), nil
}

// Update actualiza una sucursal (campos nil no se tocan).
func (uc *BranchUseCase) Update(id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, nil
	}
	if in.Name != nil {
		branch.Name = *in.Name
	}
	if in.Address != nil {
		branch.Address = *in.Address
	}
	if in.Phone != nil {
		branch.Phone = *in.Phone
	}
	if in.Status != nil {
		branch.Status = *in.Status
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List lista sucursales con paginación.
func (uc *BranchUseCase) List(limit, offset int) (*dto.BranchListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
