package directory

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/rs/zerolog"
)

// UseCase casos de uso del directorio de contactos. Cada operación recibe la partición
// (clientes o proveedores); cada una tiene su propio repositorio y espacio de IDs.
type UseCase struct {
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(customers repository.CustomerRepository, suppliers repository.SupplierRepository, log zerolog.Logger) *UseCase {
	return &UseCase{customers: customers, suppliers: suppliers, log: log, now: time.Now}
}

// Create crea un cliente o proveedor.
func (uc *UseCase) Create(ctx context.Context, partition entity.Partition, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	if err := checkPartition(partition); err != nil {
		return nil, err
	}
	details := entity.ContactDetails{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var contact entity.Contact
	switch partition {
	case entity.PartitionCustomer:
		c := &entity.Customer{ContactDetails: details, CreatedAt: now, UpdatedAt: now}
		if err := uc.customers.Create(ctx, c); err != nil {
			return nil, err
		}
		contact = c
	default:
		s := &entity.Supplier{ContactDetails: details, CreatedAt: now, UpdatedAt: now}
		if err := uc.suppliers.Create(ctx, s); err != nil {
			return nil, err
		}
		contact = s
	}
	uc.log.Info().Str("partition", string(partition)).Int64("contact_id", contact.Identity()).Msg("contacto creado")
	return ToContactResponse(contact), nil
}

// Get obtiene un contacto de la partición.
func (uc *UseCase) Get(ctx context.Context, partition entity.Partition, id int64) (*dto.ContactResponse, error) {
	contact, err := uc.find(ctx, partition, id)
	if err != nil {
		return nil, err
	}
	return ToContactResponse(contact), nil
}

// Update modifica los datos de un contacto. Los campos nil no cambian.
func (uc *UseCase) Update(ctx context.Context, partition entity.Partition, id int64, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	contact, err := uc.find(ctx, partition, id)
	if err != nil {
		return nil, err
	}
	details := contact.Details()
	if in.Name != nil {
		details.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		details.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		details.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		details.Address = strings.TrimSpace(*in.Address)
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	switch c := contact.(type) {
	case *entity.Customer:
		c.ContactDetails, c.UpdatedAt = details, now
		err = uc.customers.Update(ctx, c)
	case *entity.Supplier:
		c.ContactDetails, c.UpdatedAt = details, now
		err = uc.suppliers.Update(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return ToContactResponse(contact), nil
}

// List lista los contactos de la partición en orden de ID.
func (uc *UseCase) List(ctx context.Context, partition entity.Partition, in dto.ContactFilterRequest) (*dto.ContactListResponse, error) {
	if err := checkPartition(partition); err != nil {
		return nil, err
	}
	in.Normalize()
	filter := repository.ContactFilter{Search: strings.TrimSpace(in.Search), Limit: in.Limit, Offset: in.Offset}

	var items []dto.ContactResponse
	switch partition {
	case entity.PartitionCustomer:
		list, err := uc.customers.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		items = make([]dto.ContactResponse, 0, len(list))
		for _, c := range list {
			items = append(items, *ToContactResponse(c))
		}
	default:
		list, err := uc.suppliers.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		items = make([]dto.ContactResponse, 0, len(list))
		for _, s := range list {
			items = append(items, *ToContactResponse(s))
		}
	}
	return &dto.ContactListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Count: len(items)},
	}, nil
}

// Delete elimina un contacto sin movimientos; si algún movimiento lo referencia devuelve ErrConflict.
func (uc *UseCase) Delete(ctx context.Context, partition entity.Partition, id int64) error {
	if _, err := uc.find(ctx, partition, id); err != nil {
		return err
	}
	var err error
	if partition == entity.PartitionCustomer {
		err = uc.customers.Delete(ctx, id)
	} else {
		err = uc.suppliers.Delete(ctx, id)
	}
	if err != nil {
		return err
	}
	uc.log.Info().Str("partition", string(partition)).Int64("contact_id", id).Msg("contacto eliminado")
	return nil
}

func (uc *UseCase) find(ctx context.Context, partition entity.Partition, id int64) (entity.Contact, error) {
	if err := checkPartition(partition); err != nil {
		return nil, err
	}
	switch partition {
	case entity.PartitionCustomer:
		c, err := uc.customers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	default:
		s, err := uc.suppliers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, partition, id)
}

func checkPartition(p entity.Partition) error {
	if !p.Valid() {
		return fmt.Errorf("%w: partición %q", domain.ErrInvalidInput, p)
	}
	return nil
}

func validateDetails(d entity.ContactDetails) error {
	if d.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if d.Email != "" {
		addr, err := mail.ParseAddress(d.Email)
		if err != nil || addr.Address != d.Email {
			return fmt.Errorf("%w: email inválido %q", domain.ErrInvalidInput, d.Email)
		}
	}
	return nil
}

// ToContactResponse mapea cualquier contacto a su salida HTTP con la partición explícita.
func ToContactResponse(c entity.Contact) *dto.ContactResponse {
	d := c.Details()
	out := &dto.ContactResponse{
		ID:        c.Identity(),
		Partition: string(c.Partition()),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
	}
	switch v := c.(type) {
	case *entity.Customer:
		out.CreatedAt, out.UpdatedAt = v.CreatedAt, v.UpdatedAt
	case *entity.Supplier:
		out.CreatedAt, out.UpdatedAt = v.CreatedAt, v.UpdatedAt
	}
	return out
}
