// Package events публикует события жизненного цикла бронирований в RabbitMQ.
// Ошибки публикации логируются и не прерывают основной поток обработки запроса.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события в durable очередь через default exchange.
// Соединение устанавливается один раз при создании и живёт до Close.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     Logger
}

// NewPublisher подключается к брокеру и декларирует очередь (идемпотентно)
func NewPublisher(url, queue string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}

	// Durable очередь — сообщения переживают перезапуск брокера
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declare queue %s: %w", queue, err)
	}

	return &Publisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
		log:     log,
	}, nil
}

// Publish отправляет событие. Ошибка логируется и возвращается, но вызывающая
// сторона вправе её игнорировать — запрос не должен падать из-за брокера.
func (p *Publisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("events: marshal %s for reservation id=%d: %v", event.Type, event.ReservationID, err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.channel.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.log.Error("events: publish %s for reservation id=%d: %v", event.Type, event.ReservationID, err)
		return err
	}

	return nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Disabled заглушка, используется когда публикация событий выключена в конфиге
type Disabled struct{}

// Publish ничего не делает
func (Disabled) Publish(ctx context.Context, event ReservationEvent) error {
	return nil
}
