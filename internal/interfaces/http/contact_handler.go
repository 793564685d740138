package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/directory"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ContactHandler maneja clientes o proveedores según la partición con la que se construye.
// Las dos particiones comparten rutas y forma de respuesta pero no espacio de IDs.
type ContactHandler struct {
	uc        *directory.UseCase
	partition entity.Partition
}

// NewContactHandler construye el handler para una partición.
func NewContactHandler(uc *directory.UseCase, partition entity.Partition) *ContactHandler {
	return &ContactHandler{uc: uc, partition: partition}
}

// Create godoc
// @Summary      Crear cliente / proveedor
// @Tags         directory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContactRequest  true  "Datos del contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
// @Router       /api/suppliers [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), h.partition, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente / proveedor
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del contacto"
// @Success      200  {object}  dto.ContactResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
// @Router       /api/suppliers/{id} [get]
func (h *ContactHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.UserContext(), h.partition, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes / proveedores
// @Tags         directory
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Subcadena de nombre o email"
// @Param        limit   query  int     false  "Límite (0 = todos)"
// @Param        offset  query  int     false  "Offset"
// @Success      200     {object}  dto.ContactListResponse
// @Router       /api/customers [get]
// @Router       /api/suppliers [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var in dto.ContactFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "VALIDATION", "parámetros de consulta inválidos")
	}
	out, err := h.uc.List(c.UserContext(), h.partition, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente / proveedor
// @Tags         directory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del contacto"
// @Param        body  body  dto.UpdateContactRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
// @Router       /api/suppliers/{id} [put]
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.UserContext(), h.partition, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente / proveedor
// @Tags         directory
// @Security     Bearer
// @Param        id   path  int  true  "ID del contacto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
// @Router       /api/suppliers/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), h.partition, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
