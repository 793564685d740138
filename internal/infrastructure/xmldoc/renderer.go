// Package xmldoc renderiza facturas como XML canónico (C14N). Los bytes canónicos son la base del
// digest SHA-256 que identifica el contenido de la factura.
package xmldoc

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/ucarion/c14n"
)

// Namespace espacio de nombres del documento.
const Namespace = "urn:inventario-ledger:invoice:1"

var _ invoice.Renderer = (*Renderer)(nil)

// Renderer implementa invoice.Renderer con etree + c14n.
type Renderer struct{}

// NewRenderer construye el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render arma el árbol XML y devuelve su forma canónica.
func (r *Renderer) Render(_ context.Context, doc invoice.Document) ([]byte, error) {
	tree := etree.NewDocument()
	root := tree.CreateElement("Invoice")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("id", doc.DocumentID.String())

	header := root.CreateElement("Header")
	header.CreateElement("Title").SetText(doc.Title)
	header.CreateElement("TransactionID").SetText(strconv.FormatInt(doc.TransactionID, 10))
	header.CreateElement("MovementType").SetText(string(doc.Type))
	header.CreateElement("IssueDate").SetText(doc.Date.UTC().Format(time.RFC3339))
	header.CreateElement("PriceMode").SetText(doc.PriceMode)

	party := root.CreateElement("Party")
	party.CreateAttr("partition", string(doc.PartyPartition))
	party.CreateAttr("label", doc.PartyLabel)
	party.CreateElement("ID").SetText(strconv.FormatInt(doc.PartyID, 10))
	party.CreateElement("Name").SetText(doc.Party.Name)
	optional(party, "Email", doc.Party.Email)
	optional(party, "Phone", doc.Party.Phone)
	optional(party, "Address", doc.Party.Address)

	line := root.CreateElement("Line")
	line.CreateElement("ProductID").SetText(strconv.FormatInt(doc.ProductID, 10))
	line.CreateElement("SKU").SetText(doc.ProductSKU)
	line.CreateElement("Description").SetText(doc.ProductName)
	line.CreateElement("Quantity").SetText(strconv.FormatInt(doc.Quantity, 10))
	line.CreateElement("UnitPrice").SetText(doc.UnitPrice.StringFixed(2))
	line.CreateElement("LineTotal").SetText(doc.LineTotal.StringFixed(2))

	root.CreateElement("Total").SetText(doc.LineTotal.StringFixed(2))

	raw, err := tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xmldoc: serializar: %w", err)
	}
	return Canonicalize(raw)
}

// Canonicalize aplica C14N al XML.
func Canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("xmldoc: canonicalizar: %w", err)
	}
	return out, nil
}

func optional(parent *etree.Element, tag, value string) {
	if value != "" {
		parent.CreateElement(tag).SetText(value)
	}
}
