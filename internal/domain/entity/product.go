package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock solo lo modifica el ledger al aceptar movimientos; InitialStock queda fijo desde la creación
// y es la base para reconstruir el stock a partir del historial.
type Product struct {
	ID           int64
	SKU          string // único en todo el catálogo
	Name         string
	Description  string
	Price        decimal.Decimal // precio unitario de venta (>= 0)
	Stock        int64
	InitialStock int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
