package invoice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Deps dependencias del generador. Cache es opcional.
type Deps struct {
	Transactions repository.TransactionRepository
	Products     repository.ProductRepository
	Customers    repository.CustomerRepository
	Suppliers    repository.SupplierRepository
	PDF          Renderer
	XML          Renderer
	Cache        Cache
	PriceMode    string
	Log          zerolog.Logger
}

// UseCase genera la factura de un movimiento. No guarda estado propio: todo sale del ledger,
// el catálogo y el directorio en el momento de la llamada.
type UseCase struct {
	deps  Deps
	group singleflight.Group
}

// NewUseCase construye el generador.
func NewUseCase(deps Deps) *UseCase {
	return &UseCase{deps: deps}
}

// Generate devuelve la factura del movimiento en el formato pedido (pdf por defecto).
func (uc *UseCase) Generate(ctx context.Context, transactionID int64, format Format) (*Artifact, error) {
	if format == "" {
		format = FormatPDF
	}
	format = Format(strings.ToLower(string(format)))
	if !format.Valid() {
		return nil, fmt.Errorf("%w: formato %q (use pdf o xml)", domain.ErrInvalidInput, format)
	}

	doc, version, err := uc.document(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	key := cacheKey(doc, format, version)

	v, err, _ := uc.group.Do(key, func() (interface{}, error) {
		// El resultado se comparte: la cancelación de quien llegó primero no debe romperlo para el resto.
		ctx := context.WithoutCancel(ctx)
		if cached := uc.fromCache(ctx, key); cached != nil {
			return cached, nil
		}
		artifact, err := uc.render(ctx, doc, format)
		if err != nil {
			return nil, err
		}
		if uc.deps.Cache != nil {
			if err := uc.deps.Cache.Set(ctx, key, artifact); err != nil {
				uc.deps.Log.Warn().Err(err).Str("key", key).Msg("guardar factura en caché")
			}
		}
		return artifact, nil
	})
	if err != nil {
		return nil, err
	}
	shared := v.(*Artifact)
	out := *shared
	out.Bytes = append([]byte(nil), shared.Bytes...)
	return &out, nil
}

// document arma el documento de negocio sin renderizar, junto con la versión de
// producto y contraparte de la que salió.
func (uc *UseCase) document(ctx context.Context, transactionID int64) (Document, string, error) {
	tx, product, party, err := uc.resolve(ctx, transactionID)
	if err != nil {
		return Document{}, "", err
	}
	version := fmt.Sprintf("p%d:c%d", product.UpdatedAt.UnixNano(), contactVersion(party))
	return NewDocument(tx, product, party, uc.deps.PriceMode), version, nil
}

// resolve carga el movimiento y, en paralelo, su producto y su contraparte.
func (uc *UseCase) resolve(ctx context.Context, transactionID int64) (*entity.Transaction, *entity.Product, entity.Contact, error) {
	tx, err := uc.deps.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if tx == nil {
		return nil, nil, nil, fmt.Errorf("%w: movimiento %d", domain.ErrNotFound, transactionID)
	}

	var (
		product *entity.Product
		party   entity.Contact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.deps.Products.GetByID(gctx, tx.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, tx.ProductID)
		}
		product = p
		return nil
	})
	g.Go(func() error {
		c, err := uc.counterparty(gctx, tx)
		if err != nil {
			return err
		}
		party = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return tx, product, party, nil
}

func (uc *UseCase) counterparty(ctx context.Context, tx *entity.Transaction) (entity.Contact, error) {
	if tx.Counterparty() == entity.PartitionSupplier {
		s, err := uc.deps.Suppliers.GetByID(ctx, tx.ContactID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	} else {
		c, err := uc.deps.Customers.GetByID(ctx, tx.ContactID)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %d", domain.ErrNotFound, tx.Counterparty(), tx.ContactID)
}

// render produce el XML canónico (fuente del digest) y, si se pidió PDF, el PDF con el digest impreso.
func (uc *UseCase) render(ctx context.Context, doc Document, format Format) (*Artifact, error) {
	xmlBytes, err := uc.deps.XML.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("invoice: render xml: %w", err)
	}
	sum := sha256.Sum256(xmlBytes)
	doc.Digest = hex.EncodeToString(sum[:])

	body := xmlBytes
	if format == FormatPDF {
		body, err = uc.deps.PDF.Render(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("invoice: render pdf: %w", err)
		}
	}
	uc.deps.Log.Debug().Int64("transaction_id", doc.TransactionID).Str("format", string(format)).Msg("factura generada")
	return &Artifact{
		Bytes:       body,
		ContentType: format.ContentType(),
		Filename:    Filename(doc.TransactionID, format),
		Digest:      doc.Digest,
	}, nil
}

func (uc *UseCase) fromCache(ctx context.Context, key string) *Artifact {
	if uc.deps.Cache == nil {
		return nil
	}
	a, err := uc.deps.Cache.Get(ctx, key)
	if err != nil {
		uc.deps.Log.Warn().Err(err).Str("key", key).Msg("leer factura de caché")
		return nil
	}
	return a
}

// cacheKey cambia cuando cambia cualquier dato que aparece en la factura.
func cacheKey(doc Document, format Format, version string) string {
	return fmt.Sprintf("invoice:%d:%s:%s:%s:%s",
		doc.TransactionID, format, doc.PriceMode, version, doc.UnitPrice.String())
}

func contactVersion(c entity.Contact) int64 {
	switch v := c.(type) {
	case *entity.Customer:
		return v.UpdatedAt.UnixNano()
	case *entity.Supplier:
		return v.UpdatedAt.UnixNano()
	}
	return 0
}
