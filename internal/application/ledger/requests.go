package ledger

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AcceptMovementFromRequest adapta el request HTTP al caso de uso AcceptMovement.
func (uc *UseCase) AcceptMovementFromRequest(ctx context.Context, userID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	tx, err := uc.AcceptMovement(ctx, MovementInput{
		Type:       entity.MovementType(strings.ToUpper(strings.TrimSpace(in.TransactionType))),
		ProductID:  in.ProductID,
		CustomerID: in.CustomerID,
		SupplierID: in.SupplierID,
		Quantity:   in.Quantity,
		UserID:     userID,
	})
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(tx), nil
}

// GetResponse obtiene un movimiento listo para serializar.
func (uc *UseCase) GetResponse(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	tx, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponse(tx), nil
}

// ListFromRequest traduce los filtros de query string y lista el ledger.
func (uc *UseCase) ListFromRequest(ctx context.Context, in dto.TransactionFilterRequest) (*dto.TransactionListResponse, error) {
	from, err := ParseDateBound(in.From, false)
	if err != nil {
		return nil, err
	}
	to, err := ParseDateBound(in.To, true)
	if err != nil {
		return nil, err
	}
	filter := repository.TransactionFilter{
		IDContains: strings.TrimSpace(in.Query),
		From:       from,
		To:         to,
		Type:       entity.MovementType(strings.ToUpper(strings.TrimSpace(in.Type))),
		ProductID:  in.ProductID,
		CustomerID: in.CustomerID,
		SupplierID: in.SupplierID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	list, err := uc.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := toTransactionResponses(list)
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Count: len(items)},
	}, nil
}

// HistoryResponse historial de un producto listo para serializar.
func (uc *UseCase) HistoryResponse(ctx context.Context, productID int64) (*dto.ProductHistoryResponse, error) {
	list, err := uc.History(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductHistoryResponse{ProductID: productID, Items: toTransactionResponses(list)}, nil
}

// StockReportResponse reporte de stock listo para serializar.
func (uc *UseCase) StockReportResponse(ctx context.Context, productID int64) (*dto.StockReportResponse, error) {
	r, err := uc.StockReport(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockReportResponse{
		ProductID:     r.Product.ID,
		SKU:           r.Product.SKU,
		InitialStock:  r.Product.InitialStock,
		Stock:         r.Product.Stock,
		ReplayedStock: r.ReplayedStock,
		Consistent:    r.Consistent(),
		Movements:     r.Movements,
	}, nil
}

// ToTransactionResponse expone el contacto en el campo de su partición (supplier_id o customer_id).
func ToTransactionResponse(tx *entity.Transaction) *dto.TransactionResponse {
	if tx == nil {
		return nil
	}
	out := &dto.TransactionResponse{
		ID:              tx.ID,
		ProductID:       tx.ProductID,
		TransactionType: string(tx.Type),
		Quantity:        tx.Quantity,
		UnitPrice:       tx.UnitPrice,
		Date:            tx.Date,
		CreatedBy:       tx.CreatedBy,
	}
	contactID := tx.ContactID
	if tx.Counterparty() == entity.PartitionSupplier {
		out.SupplierID = &contactID
	} else {
		out.CustomerID = &contactID
	}
	return out
}

func toTransactionResponses(list []*entity.Transaction) []dto.TransactionResponse {
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, *ToTransactionResponse(tx))
	}
	return items
}
