package entity

import "time"

var _ Contact = (*Supplier)(nil)

// Supplier representa un proveedor; es la contraparte de las entradas (IN).
type Supplier struct {
	ID int64
	ContactDetails
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Supplier) Partition() Partition    { return PartitionSupplier }
func (s *Supplier) Identity() int64         { return s.ID }
func (s *Supplier) Details() ContactDetails { return s.ContactDetails }
