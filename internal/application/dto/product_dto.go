package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=64"`
	Name        string          `json:"name" validate:"required,min=2,max=200"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitMeasure string          `json:"unit_measure"`
}

// UpdateProductRequest body para PUT /api/products/:id. Campos nil no se tocan.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string          `json:"description"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	UnitMeasure *string          `json:"unit_measure"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ProductResponse producto de catálogo en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	Status      string          `json:"status"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
