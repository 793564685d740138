package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var errSKUInUse = fmt.Errorf("%w: SKU en uso", domain.ErrInvalidInput)

// maxPrice cota exclusiva de NUMERIC(18,2): 16 dígitos enteros.
var maxPrice = decimal.New(1, 16)

// UseCase casos de uso CRUD del catálogo. El stock solo cambia vía movimientos del ledger.
type UseCase struct {
	repo repository.ProductRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, log: log, now: time.Now}
}

// Create da de alta un producto; el stock indicado queda como stock inicial.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if err := validateFields(name, sku, in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: el stock inicial no puede ser negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errSKUInUse
	}

	now := uc.now().UTC()
	product := &entity.Product{
		SKU:          sku,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		Stock:        in.Stock,
		InitialStock: in.Stock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errSKUInUse
		}
		return nil, err
	}
	uc.log.Info().Int64("product_id", product.ID).Str("sku", product.SKU).Msg("producto creado")
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update modifica atributos de catálogo. Un stock distinto del actual se rechaza.
func (uc *UseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.SKU != nil {
		product.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if err := validateFields(product.Name, product.SKU, product.Price); err != nil {
		return nil, err
	}
	if in.Stock != nil && *in.Stock != product.Stock {
		return nil, fmt.Errorf("%w: el stock solo cambia registrando movimientos (actual %d)", domain.ErrInvalidInput, product.Stock)
	}
	if in.SKU != nil {
		owner, err := uc.repo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID != product.ID {
			return nil, errSKUInUse
		}
	}

	product.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errSKUInUse
		}
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// List lista productos en orden de ID, con búsqueda opcional por nombre, SKU o ID.
func (uc *UseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.Normalize()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Count: len(items)},
	}, nil
}

// Delete elimina un producto sin movimientos; con movimientos devuelve ErrConflict.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *UseCase) find(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return product, nil
}

func validateFields(name, sku string, price decimal.Decimal) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	case sku == "":
		return fmt.Errorf("%w: el SKU es obligatorio", domain.ErrInvalidInput)
	case price.IsNegative():
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	case !price.Equal(price.Round(2)):
		return fmt.Errorf("%w: el precio admite como máximo 2 decimales", domain.ErrInvalidInput)
	case price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: el precio debe ser menor que %s", domain.ErrInvalidInput, maxPrice)
	}
	return nil
}

// ToProductResponse mapea la entidad a su salida HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		InitialStock: p.InitialStock,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
