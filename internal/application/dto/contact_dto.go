package dto

import "time"

// CreateContactRequest entrada para crear un cliente o proveedor.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateContactRequest entrada para actualizar un contacto. Los campos nil no cambian.
type UpdateContactRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ContactFilterRequest filtros de listado del directorio.
type ContactFilterRequest struct {
	PageRequest
	Search string `query:"search"`
}

// ContactResponse salida de un contacto; Partition indica "customer" o "supplier".
type ContactResponse struct {
	ID        int64     `json:"id"`
	Partition string    `json:"partition"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactListResponse lista paginada de contactos de una partición.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
