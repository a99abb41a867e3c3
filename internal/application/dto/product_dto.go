package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string           `json:"nombre"`
	Description string           `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Unit        string           `json:"unidad"`
	Code        string           `json:"codigo"`
}

// UpdateProductRequest entrada para actualizar un producto (solo los campos presentes).
type UpdateProductRequest struct {
	Name        *string          `json:"nombre"`
	Description *string          `json:"descripcion"`
	Price       *decimal.Decimal `json:"precio"`
	Unit        *string          `json:"unidad"`
	Code        *string          `json:"codigo"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	Unit        string          `json:"unidad"`
	Code        string          `json:"codigo"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
