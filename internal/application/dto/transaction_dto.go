package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransactionRequest entrada para registrar un movimiento.
// IN exige supplier_id y OUT exige customer_id; nunca ambos.
type CreateTransactionRequest struct {
	ProductID       int64  `json:"product_id"`
	TransactionType string `json:"transaction_type"`
	Quantity        int64  `json:"quantity"`
	SupplierID      *int64 `json:"supplier_id,omitempty"`
	CustomerID      *int64 `json:"customer_id,omitempty"`
}

// TransactionFilterRequest filtros de consulta del ledger (query string).
type TransactionFilterRequest struct {
	PageRequest
	Query      string `query:"q"`
	From       string `query:"from"` // RFC3339 o YYYY-MM-DD
	To         string `query:"to"`
	Type       string `query:"type"`
	ProductID  int64  `query:"product_id"`
	CustomerID int64  `query:"customer_id"`
	SupplierID int64  `query:"supplier_id"`
}

// TransactionResponse salida de un movimiento.
type TransactionResponse struct {
	ID              int64           `json:"id"`
	ProductID       int64           `json:"product_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	SupplierID      *int64          `json:"supplier_id"`
	CustomerID      *int64          `json:"customer_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Date            time.Time       `json:"date"`
	CreatedBy       string          `json:"created_by,omitempty"`
}

// TransactionListResponse lista de movimientos en orden de ledger.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockReportResponse stock vigente frente al reconstruido desde el historial.
type StockReportResponse struct {
	ProductID     int64  `json:"product_id"`
	SKU           string `json:"sku"`
	InitialStock  int64  `json:"initial_stock"`
	Stock         int64  `json:"stock"`
	ReplayedStock int64  `json:"replayed_stock"`
	Consistent    bool   `json:"consistent"`
	Movements     int    `json:"movements"`
}

// ProductHistoryResponse historial de movimientos de un producto.
type ProductHistoryResponse struct {
	ProductID int64                 `json:"product_id"`
	Items     []TransactionResponse `json:"items"`
}
