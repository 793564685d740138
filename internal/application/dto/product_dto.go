package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock es el stock inicial.
type CreateProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
}

// UpdateProductRequest entrada para actualizar un producto. Los campos nil no cambian.
// Stock solo se acepta si coincide con el stock actual: el ledger es el único que lo modifica.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
}

// ProductFilterRequest filtros de listado.
type ProductFilterRequest struct {
	PageRequest
	Search string `query:"search"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int64           `json:"stock"`
	InitialStock int64           `json:"initial_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
