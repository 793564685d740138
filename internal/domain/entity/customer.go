package entity

import "time"

var _ Contact = (*Customer)(nil)

// Customer representa un cliente; es la contraparte de las salidas (OUT).
type Customer struct {
	ID int64
	ContactDetails
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Customer) Partition() Partition    { return PartitionCustomer }
func (c *Customer) Identity() int64         { return c.ID }
func (c *Customer) Details() ContactDetails { return c.ContactDetails }
