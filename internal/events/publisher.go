package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher defines the interface for event publishing
type Publisher interface {
	PublishLookCreated(ctx context.Context, lookID, ownerID string) error
	PublishLookUpdated(ctx context.Context, lookID, ownerID string) error
	PublishLookDeleted(ctx context.Context, lookID, ownerID string) error
	PublishLookExported(ctx context.Context, lookID, ownerID string) error
	PublishImageUploaded(ctx context.Context, lookID, ownerID, kind, storagePath string) error
	PublishImageReplaced(ctx context.Context, lookID, ownerID, kind, storagePath string) error

	// Close closes the publisher connection
	Close() error
}

const exchangeName = "lookbook.events"

// EventPublisher implements the Publisher interface using RabbitMQ
type EventPublisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	enabled bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(rabbitURI string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:    conn,
		channel: channel,
		enabled: true,
	}, nil
}

// publishEvent publishes an event to RabbitMQ
func (p *EventPublisher) publishEvent(ctx context.Context, routingKey string, event interface{}) error {
	if !p.enabled {
		log.Printf("Event publishing is disabled, skipping event: %s", routingKey)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		exchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("Published event: %s", routingKey)
	return nil
}

func (p *EventPublisher) PublishLookCreated(ctx context.Context, lookID, ownerID string) error {
	return p.publishEvent(ctx, string(EventTypeLookCreated), newLookEvent(EventTypeLookCreated, lookID, ownerID))
}

func (p *EventPublisher) PublishLookUpdated(ctx context.Context, lookID, ownerID string) error {
	return p.publishEvent(ctx, string(EventTypeLookUpdated), newLookEvent(EventTypeLookUpdated, lookID, ownerID))
}

func (p *EventPublisher) PublishLookDeleted(ctx context.Context, lookID, ownerID string) error {
	return p.publishEvent(ctx, string(EventTypeLookDeleted), newLookEvent(EventTypeLookDeleted, lookID, ownerID))
}

func (p *EventPublisher) PublishLookExported(ctx context.Context, lookID, ownerID string) error {
	return p.publishEvent(ctx, string(EventTypeLookExported), newLookEvent(EventTypeLookExported, lookID, ownerID))
}

func (p *EventPublisher) PublishImageUploaded(ctx context.Context, lookID, ownerID, kind, storagePath string) error {
	return p.publishEvent(ctx, string(EventTypeImageUploaded), newImageEvent(EventTypeImageUploaded, lookID, ownerID, kind, storagePath))
}

func (p *EventPublisher) PublishImageReplaced(ctx context.Context, lookID, ownerID, kind, storagePath string) error {
	return p.publishEvent(ctx, string(EventTypeImageReplaced), newImageEvent(EventTypeImageReplaced, lookID, ownerID, kind, storagePath))
}

// Close closes the connection to RabbitMQ
func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}

	return nil
}
