package main

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/directory"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedFile archivo de datos iniciales.
//
//	<inventario>
//	  <productos><producto sku="LAP-001" nombre="Portátil" precio="1500.00" stock="10">desc</producto></productos>
//	  <clientes><contacto nombre="Ana" email="ana@example.com"/></clientes>
//	  <proveedores><contacto nombre="Acme"/></proveedores>
//	</inventario>
type seedFile struct {
	XMLName     xml.Name      `xml:"inventario"`
	Productos   []seedProduct `xml:"productos>producto"`
	Clientes    []seedContact `xml:"clientes>contacto"`
	Proveedores []seedContact `xml:"proveedores>contacto"`
}

type seedProduct struct {
	SKU         string `xml:"sku,attr"`
	Nombre      string `xml:"nombre,attr"`
	Precio      string `xml:"precio,attr"`
	Stock       int64  `xml:"stock,attr"`
	Descripcion string `xml:",chardata"`
}

type seedContact struct {
	Nombre    string `xml:"nombre,attr"`
	Email     string `xml:"email,attr"`
	Telefono  string `xml:"telefono,attr"`
	Direccion string `xml:"direccion,attr"`
}

// parseSeed decodifica el XML; acepta UTF-8 e ISO-8859-1 (exportaciones de hojas de cálculo).
func parseSeed(r io.Reader) (*seedFile, error) {
	var f seedFile
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}
	return &f, nil
}

// summary conteo de lo creado y lo omitido por existir ya.
type summary struct {
	Products, Customers, Suppliers int
	Skipped                        int
}

// loader aplica el seed a través de los casos de uso, así pasa por las mismas validaciones que la API.
type loader struct {
	catalog   *catalog.UseCase
	directory *directory.UseCase
	products  repository.ProductRepository
}

func (l *loader) load(ctx context.Context, f *seedFile) (summary, error) {
	var s summary
	for _, p := range f.Productos {
		existing, err := l.products.GetBySKU(ctx, strings.TrimSpace(p.SKU))
		if err != nil {
			return s, err
		}
		if existing != nil {
			s.Skipped++
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(p.Precio))
		if err != nil {
			return s, fmt.Errorf("producto %s: precio %q: %w", p.SKU, p.Precio, err)
		}
		if _, err := l.catalog.Create(ctx, dto.CreateProductRequest{
			Name:        strings.TrimSpace(p.Nombre),
			SKU:         strings.TrimSpace(p.SKU),
			Description: strings.TrimSpace(p.Descripcion),
			Price:       price,
			Stock:       p.Stock,
		}); err != nil {
			return s, fmt.Errorf("producto %s: %w", p.SKU, err)
		}
		s.Products++
	}

	for _, group := range []struct {
		partition entity.Partition
		contacts  []seedContact
		count     *int
	}{
		{entity.PartitionCustomer, f.Clientes, &s.Customers},
		{entity.PartitionSupplier, f.Proveedores, &s.Suppliers},
	} {
		for _, c := range group.contacts {
			exists, err := l.contactExists(ctx, group.partition, c.Nombre)
			if err != nil {
				return s, err
			}
			if exists {
				s.Skipped++
				continue
			}
			if _, err := l.directory.Create(ctx, group.partition, dto.CreateContactRequest{
				Name:    strings.TrimSpace(c.Nombre),
				Email:   strings.TrimSpace(c.Email),
				Phone:   strings.TrimSpace(c.Telefono),
				Address: strings.TrimSpace(c.Direccion),
			}); err != nil {
				return s, fmt.Errorf("%s %q: %w", group.partition, c.Nombre, err)
			}
			*group.count++
		}
	}
	return s, nil
}

// contactExists busca un contacto con el mismo nombre en la partición; el seed es idempotente.
func (l *loader) contactExists(ctx context.Context, partition entity.Partition, name string) (bool, error) {
	name = strings.TrimSpace(name)
	out, err := l.directory.List(ctx, partition, dto.ContactFilterRequest{Search: name})
	if err != nil {
		return false, err
	}
	for _, c := range out.Items {
		if strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}
