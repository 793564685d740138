package events

import (
	"context"
	"errors"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	"github.com/rs/zerolog"
)

var (
	_ ledger.MovementPublisher = (*LogPublisher)(nil)
	_ ledger.MovementPublisher = Multi(nil)
)

// LogPublisher escribe cada movimiento aceptado como una línea de log estructurada.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher construye el publisher sobre el logger dado.
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishMovementAccepted(_ context.Context, e ledger.MovementAccepted) error {
	m := NewMessage(e)
	p.log.Info().
		Str("event", m.Event).
		Str("routing_key", RoutingKey(e.Transaction.Type)).
		Int64("transaction_id", m.TransactionID).
		Int64("product_id", m.ProductID).
		Str("product_sku", m.ProductSKU).
		Int64("quantity", m.Quantity).
		Int64("stock", m.Stock).
		Msg("movimiento publicado")
	return nil
}

// Multi publica en todos los destinos y devuelve los errores combinados.
type Multi []ledger.MovementPublisher

func (m Multi) PublishMovementAccepted(ctx context.Context, e ledger.MovementAccepted) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishMovementAccepted(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
