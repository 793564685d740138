package xmldoc_test

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/inventario-ledger/internal/application/invoice"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/xmldoc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() invoice.Document {
	tx := &entity.Transaction{ID: 42, Type: entity.MovementTypeOUT, ProductID: 3, ContactID: 5, Quantity: 4,
		UnitPrice: decimal.NewFromInt(9), Date: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	product := &entity.Product{ID: 3, SKU: "SKU-3", Name: "Café & Té <premium>", Price: decimal.RequireFromString("2.5")}
	customer := &entity.Customer{ID: 5, ContactDetails: entity.ContactDetails{Name: "Ana", Email: "ana@example.com"}}
	return invoice.NewDocument(tx, product, customer, invoice.PriceModeCurrent)
}

func TestRender_EstructuraYEscape(t *testing.T) {
	out, err := xmldoc.NewRenderer().Render(context.Background(), sampleDocument())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Invoice", root.Tag)
	assert.Equal(t, xmldoc.Namespace, root.SelectAttrValue("xmlns", ""))

	assert.Equal(t, "FACTURA DE VENTA", root.FindElement("./Header/Title").Text())
	assert.Equal(t, "42", root.FindElement("./Header/TransactionID").Text())
	assert.Equal(t, "customer", root.FindElement("./Party").SelectAttrValue("partition", ""))
	assert.Equal(t, "Café & Té <premium>", root.FindElement("./Line/Description").Text())
	assert.Equal(t, "10.00", root.FindElement("./Line/LineTotal").Text())
	assert.Nil(t, root.FindElement("./Party/Phone"))
}

func TestRender_Deterministico(t *testing.T) {
	r := xmldoc.NewRenderer()
	a, err := r.Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	b, err := r.Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCanonicalize_NormalizaAtributos(t *testing.T) {
	a, err := xmldoc.Canonicalize([]byte(`<x b="2" a="1"><y/></x>`))
	require.NoError(t, err)
	b, err := xmldoc.Canonicalize([]byte(`<x a="1"  b="2"><y></y></x>`))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
