// Package events публикует события жизненного цикла снапшотов в RabbitMQ.
// Потребители событий — внешние системы (экспорт PDF, публичные страницы
// пакетов), которые перечитывают снапшот при его изменении.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Exchange — имя exchange для событий снапшотов.
const Exchange = "quotes"

// Ключи маршрутизации публикуемых событий.
const (
	RoutingKeySnapshotUpdated   = "snapshot.updated"
	RoutingKeySnapshotActivated = "snapshot.activated"
	RoutingKeySnapshotRemoved   = "snapshot.removed"
)

// SnapshotEvent — тело события жизненного цикла снапшота.
type SnapshotEvent struct {
	SnapshotID string    `json:"snapshot_id"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher публикует события в настроенный exchange.
type Publisher struct {
	ch *amqp.Channel
}

// Connect подключается к RabbitMQ с повторами.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "events.Connect"
	var conn *amqp.Connection
	var err error

	for range retries {
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// NewPublisher открывает канал и объявляет exchange с очередями событий.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	const op = "events.NewPublisher"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, key := range []string{RoutingKeySnapshotUpdated, RoutingKeySnapshotActivated, RoutingKeySnapshotRemoved} {
		queue := "quotes." + key
		if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, queue, err)
		}
		if err = ch.QueueBind(queue, key, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s: %w", op, queue, err)
		}
	}

	return &Publisher{ch: ch}, nil
}

// Publish публикует событие с указанным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, event SnapshotEvent) error {
	const op = "events.Publish"
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
