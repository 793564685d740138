// Package pdf implementa la representación gráfica de las facturas del ledger.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título (venta/compra)  │  N° Movimiento + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRAPARTE: Cliente o Proveedor + contacto                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Descripción | P.Unit | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Documento + Digest + QR                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ invoice.Renderer = (*MarotoRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa invoice.Renderer usando Maroto v2.
type MarotoRenderer struct {
	issuer string
}

// NewMarotoRenderer construye el renderer. issuer aparece como autor del PDF.
func NewMarotoRenderer(issuer string) *MarotoRenderer {
	return &MarotoRenderer{issuer: nonEmpty(issuer, "inventario-ledger")}
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(_ context.Context, doc invoice.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title+" "+strconv.FormatInt(doc.TransactionID, 10), true).
		WithAuthor(g.issuer, true).
		WithCreationDate(doc.Date).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRow(doc))

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(doc)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(doc invoice.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Movimiento "+string(doc.Type), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+strconv.FormatInt(doc.TransactionID, 10), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+doc.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func partyRow(doc invoice.Document) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(doc.PartyLabel+" #"+strconv.FormatInt(doc.PartyID, 10), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Party.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   Dirección: %s",
				nonEmpty(doc.Party.Email, "-"),
				nonEmpty(doc.Party.Phone, "-"),
				nonEmpty(doc.Party.Address, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func tableLineRow(doc invoice.Document) core.Row {
	return row.New(7).Add(
		col.New(1).Add(text.New(
			strconv.FormatInt(doc.Quantity, 10),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(2).Add(text.New(
			doc.ProductSKU,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(4).Add(text.New(
			doc.ProductName,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(2).Add(text.New(
			"$"+FormatMoney(doc.UnitPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(3).Add(text.New(
			"$"+FormatMoney(doc.LineTotal),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

func totalRow(doc invoice.Document) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+FormatMoney(doc.LineTotal), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: identificador del documento, digest partido y QR.
func footerRows(doc invoice.Document) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Documento "+doc.DocumentID.String(), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if doc.Digest != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("SHA-256 del XML canónico:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)))
		for _, chunk := range splitEvery(doc.Digest, 64) {
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
			)))
		}
	}

	rows = append(rows, row.New(3), row.New(40).Add(
		col.New(3).Add(code.NewQr(qrPayload(doc), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Precio: "+doc.PriceMode, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Escanee el código para verificar el documento.", props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func qrPayload(doc invoice.Document) string {
	if doc.Digest == "" {
		return doc.DocumentID.String()
	}
	return doc.DocumentID.String() + ";" + doc.Digest
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

var moneyPrinter = message.NewPrinter(language.Spanish)

// FormatMoney formatea con separador de miles "." y dos decimales con ",".
// Ej: 1500000 → "1.500.000,00".
func FormatMoney(d decimal.Decimal) string {
	return moneyPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
