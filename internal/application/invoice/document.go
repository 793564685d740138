package invoice

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Format formato de salida de la factura.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatXML Format = "xml"
)

// Valid informa si f es un formato soportado.
func (f Format) Valid() bool { return f == FormatPDF || f == FormatXML }

// ContentType tipo MIME del artefacto.
func (f Format) ContentType() string {
	if f == FormatXML {
		return "application/xml"
	}
	return "application/pdf"
}

// Modos de precio de la línea.
const (
	PriceModeCurrent  = "current"
	PriceModeSnapshot = "snapshot"
)

// documentNamespace espacio de nombres de los UUID v5 de documentos.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:inventario-ledger:invoice"))

// Document datos de negocio de una factura. Se construye solo a partir del movimiento, el producto
// y la contraparte, así que dos generaciones sobre los mismos datos producen el mismo Document.
type Document struct {
	DocumentID    uuid.UUID
	TransactionID int64
	Type          entity.MovementType
	Title         string
	Date          time.Time

	PartyPartition entity.Partition
	PartyLabel     string
	PartyID        int64
	Party          entity.ContactDetails

	ProductID   int64
	ProductSKU  string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	PriceMode   string

	// Digest SHA-256 (hex) del XML canónico; lo completa el generador antes de renderizar el PDF.
	Digest string
}

// Artifact factura renderizada lista para descargar.
type Artifact struct {
	Bytes       []byte
	ContentType string
	Filename    string
	Digest      string
}

// Filename nombre de descarga: Invoice_<id>.<formato>.
func Filename(transactionID int64, f Format) string {
	return "Invoice_" + strconv.FormatInt(transactionID, 10) + "." + string(f)
}

// DocumentID UUID v5 derivado del ID del movimiento.
func DocumentID(transactionID int64) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(strconv.FormatInt(transactionID, 10)))
}

// NewDocument arma el documento. priceMode "snapshot" usa el precio registrado en el movimiento;
// cualquier otro valor usa el precio vigente del producto.
func NewDocument(tx *entity.Transaction, product *entity.Product, party entity.Contact, priceMode string) Document {
	price := product.Price
	if priceMode == PriceModeSnapshot {
		price = tx.UnitPrice
	} else {
		priceMode = PriceModeCurrent
	}
	title, label := "FACTURA DE VENTA", "Cliente"
	if tx.Type == entity.MovementTypeIN {
		title, label = "ORDEN DE COMPRA", "Proveedor"
	}
	return Document{
		DocumentID:     DocumentID(tx.ID),
		TransactionID:  tx.ID,
		Type:           tx.Type,
		Title:          title,
		Date:           tx.Date.UTC(),
		PartyPartition: party.Partition(),
		PartyLabel:     label,
		PartyID:        party.Identity(),
		Party:          party.Details(),
		ProductID:      product.ID,
		ProductSKU:     product.SKU,
		ProductName:    product.Name,
		Quantity:       tx.Quantity,
		UnitPrice:      price,
		LineTotal:      price.Mul(decimal.NewFromInt(tx.Quantity)),
		PriceMode:      priceMode,
	}
}
