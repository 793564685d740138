package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIN  MovementType = "IN"  // entrada (compra a proveedor)
	MovementTypeOUT MovementType = "OUT" // salida (venta a cliente)
)

// Valid informa si t es un tipo de movimiento soportado.
func (t MovementType) Valid() bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// CounterpartyPartition devuelve la partición de contacto exigida por el tipo:
// IN => proveedor, OUT => cliente.
func (t MovementType) CounterpartyPartition() Partition {
	if t == MovementTypeIN {
		return PartitionSupplier
	}
	return PartitionCustomer
}

// Transaction es un movimiento aceptado por el ledger. Es inmutable: no existe
// operación de actualización ni borrado; las correcciones se registran con un
// movimiento compensatorio en sentido contrario.
type Transaction struct {
	ID        int64 // asignado en orden de confirmación
	Type      MovementType
	ProductID int64
	ContactID int64           // cliente (OUT) o proveedor (IN), según Type
	Quantity  int64           // siempre positivo
	UnitPrice decimal.Decimal // precio del producto al momento de aceptar el movimiento
	Date      time.Time
	CreatedBy string // UserID del token
}

// Counterparty partición del contacto referenciado.
func (t *Transaction) Counterparty() Partition {
	return t.Type.CounterpartyPartition()
}

// SignedQuantity cantidad con signo: positiva para IN, negativa para OUT.
func (t *Transaction) SignedQuantity() int64 {
	if t.Type == MovementTypeOUT {
		return -t.Quantity
	}
	return t.Quantity
}
