package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/ledger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	exchangeType = "topic"
	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

var _ ledger.MovementPublisher = (*RabbitPublisher)(nil)

// RabbitPublisher publica en un exchange topic con routing key inventory.movement.<in|out>.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	mu       sync.Mutex
}

// Dial conecta al broker con reintentos, abre un canal y declara el exchange.
func Dial(ctx context.Context, url, exchange string, log zerolog.Logger) (*RabbitPublisher, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("conexión a RabbitMQ fallida")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishMovementAccepted publica el evento como JSON persistente.
func (p *RabbitPublisher) PublishMovementAccepted(ctx context.Context, e ledger.MovementAccepted) error {
	body, err := json.Marshal(NewMessage(e))
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx,
		p.exchange,                     // exchange
		RoutingKey(e.Transaction.Type), // routing key
		false,                          // mandatory
		false,                          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    e.OccurredAt,
			Type:         EventMovementAccepted,
			Body:         body,
		},
	)
}

// Close cierra canal y conexión.
func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}
