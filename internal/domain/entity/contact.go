package entity

// Partition identifica el subconjunto de contactos: clientes o proveedores.
// Cada partición tiene su propio espacio de IDs (Customer #3 y Supplier #3 son entidades distintas).
type Partition string

const (
	PartitionCustomer Partition = "customer"
	PartitionSupplier Partition = "supplier"
)

// Valid informa si p es una partición conocida.
func (p Partition) Valid() bool {
	return p == PartitionCustomer || p == PartitionSupplier
}

// ContactDetails datos comunes a clientes y proveedores.
type ContactDetails struct {
	Name    string
	Email   string // opcional
	Phone   string // opcional
	Address string // opcional
}

// Contact es la vista de solo lectura común a Customer y Supplier.
type Contact interface {
	Partition() Partition
	Identity() int64
	Details() ContactDetails
}
