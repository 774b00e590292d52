package dto

import "time"

// CreateBranchRequest body para POST /api/branches.
type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateBranchRequest body para PUT /api/branches/:id. Campos nil no se tocan.
type UpdateBranchRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=120"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Status  *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// BranchResponse sucursal en respuestas.
type BranchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchListResponse página de sucursales.
type BranchListResponse struct {
	Items []BranchResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
