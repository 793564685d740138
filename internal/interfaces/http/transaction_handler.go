package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
)

// TransactionHandler maneja el ledger de movimientos y sus facturas (protegido).
type TransactionHandler struct {
	uc       *ledger.UseCase
	invoices *invoice.UseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *ledger.UseCase, invoices *invoice.UseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc, invoices: invoices}
}

// Create godoc
// @Summary      Registrar movimiento
// @Description  IN exige supplier_id y suma stock; OUT exige customer_id y resta stock (nunca por debajo de 0).
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "product_id, transaction_type (IN|OUT), quantity, supplier_id|customer_id"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AcceptMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Consultar movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        q            query  string  false  "Subcadena del ID"
// @Param        from         query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (RFC3339 o YYYY-MM-DD, inclusive)"
// @Param        type         query  string  false  "IN u OUT"
// @Param        product_id   query  int     false  "Producto"
// @Param        customer_id  query  int     false  "Cliente"
// @Param        supplier_id  query  int     false  "Proveedor"
// @Param        limit        query  int     false  "Límite (0 = todos)"
// @Param        offset       query  int     false  "Offset"
// @Success      200          {object}  dto.TransactionListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var in dto.TransactionFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "VALIDATION", "parámetros de consulta inválidos")
	}
	out, err := h.uc.ListFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetResponse(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Descargar factura del movimiento
// @Description  OUT genera factura de venta y IN orden de compra. X-Invoice-Digest lleva el SHA-256 del XML canónico.
// @Tags         transactions
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/xml
// @Param        id      path   int     true   "ID del movimiento"
// @Param        format  query  string  false  "pdf (default) o xml"
// @Success      200     {file}  binary
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/invoice [get]
func (h *TransactionHandler) Invoice(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	artifact, err := h.invoices.Generate(c.UserContext(), id, invoice.Format(c.Query("format")))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, artifact.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+artifact.Filename+`"`)
	c.Set("X-Invoice-Digest", artifact.Digest)
	return c.Send(artifact.Bytes)
}
