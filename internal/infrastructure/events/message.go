// Package events publica los movimientos aceptados por el ledger: a RabbitMQ cuando hay broker
// configurado y al log en cualquier caso.
package events

import (
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EventMovementAccepted nombre del evento en el mensaje.
const EventMovementAccepted = "movement.accepted"

// Message cuerpo JSON publicado por movimiento.
type Message struct {
	Event         string          `json:"event"`
	TransactionID int64           `json:"transaction_id"`
	Type          string          `json:"transaction_type"`
	ProductID     int64           `json:"product_id"`
	ProductSKU    string          `json:"product_sku"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
	CustomerID    *int64          `json:"customer_id,omitempty"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Stock         int64           `json:"stock"`
	Date          time.Time       `json:"date"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewMessage arma el mensaje a partir del evento.
func NewMessage(e ledger.MovementAccepted) Message {
	tx := e.Transaction
	m := Message{
		Event:         EventMovementAccepted,
		TransactionID: tx.ID,
		Type:          string(tx.Type),
		ProductID:     tx.ProductID,
		ProductSKU:    e.ProductSKU,
		Quantity:      tx.Quantity,
		UnitPrice:     tx.UnitPrice,
		Stock:         e.Stock,
		Date:          tx.Date,
		OccurredAt:    e.OccurredAt,
	}
	contactID := tx.ContactID
	if tx.Counterparty() == entity.PartitionSupplier {
		m.SupplierID = &contactID
	} else {
		m.CustomerID = &contactID
	}
	return m
}

// RoutingKey inventory.movement.<in|out>.
func RoutingKey(t entity.MovementType) string {
	return "inventory.movement." + strings.ToLower(string(t))
}
