// Package mq fans printed tickets out to bar and kitchen printers over
// RabbitMQ.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

const TicketsExchange = "tickets_topic"

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// TicketMessage is the body of every published ticket. Text is ready to be
// sent to a receipt printer as is.
type TicketMessage struct {
	ticketing.Ticket
	Text string `json:"text"`
}

type Publisher struct {
	conn *amqp.Connection
	ch   publishChannel
	mu   sync.Mutex
}

// Dial connects to url and declares the ticket exchange with one durable
// queue per destination.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := declare(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	utils.InfoLogger.Printf("Ticket publisher connected, exchange %s", TicketsExchange)
	return &Publisher{conn: conn, ch: ch}, nil
}

func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(TicketsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	for _, d := range models.Destinations {
		queue := QueueName(d)
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return err
		}
		if err := ch.QueueBind(queue, RoutingKey(d), TicketsExchange, false, nil); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if ch, ok := p.ch.(*amqp.Channel); ok {
		_ = ch.Close()
	}
	_ = p.conn.Close()
}

func RoutingKey(d models.Destination) string {
	return "ticket." + string(d)
}

func QueueName(d models.Destination) string {
	return string(d) + ".tickets"
}

// PublishTicket sends ticket to its destination queue as a persistent
// JSON message.
func (p *Publisher) PublishTicket(ctx context.Context, ticket ticketing.Ticket) error {
	body, err := json.Marshal(TicketMessage{Ticket: ticket, Text: ticket.Text()})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, TicketsExchange, RoutingKey(ticket.Destination), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		MessageId:    ticket.OrderID + ":" + string(ticket.Destination),
		Body:         body,
	})
}
