package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"lookbook-service/internal/database/minio"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Consumer defines the interface for event consumption
type Consumer interface {
	// Start starts the consumer
	Start() error

	// Close closes the consumer
	Close() error
}

// EventConsumer runs the deferred blob cleanup: replacing a photo leaves the
// old object behind and deleting a look can leave stragglers, so the consumer
// sweeps the affected prefix when the matching event arrives.
type EventConsumer struct {
	conn      *amqp091.Connection
	channel   *amqp091.Channel
	queueName string
	bucket    string
	shutdown  chan struct{}
	wg        sync.WaitGroup
	enabled   bool
}

// NewEventConsumer creates a new event consumer
func NewEventConsumer(rabbitURI, bucket string) (*EventConsumer, error) {
	if rabbitURI == "" {
		log.Println("Warning: RabbitMQ URI is empty, event consumption is disabled")
		return &EventConsumer{
			bucket:   bucket,
			shutdown: make(chan struct{}),
			enabled:  false,
		}, nil
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

	err = channel.Qos(
		10,    // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
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

	queueName := "lookbook-service-cleanup"
	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &EventConsumer{
		conn:      conn,
		channel:   channel,
		queueName: queueName,
		bucket:    bucket,
		shutdown:  make(chan struct{}),
		enabled:   true,
	}, nil
}

// Start starts consuming events
func (c *EventConsumer) Start() error {
	if !c.enabled {
		log.Println("Event consumption is disabled, not starting consumer")
		return nil
	}

	for _, routingKey := range []string{
		string(EventTypeLookDeleted),
		string(EventTypeImageReplaced),
	} {
		err := c.channel.QueueBind(
			c.queueName, // queue name
			routingKey,  // routing key
			exchangeName,
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("failed to bind queue to exchange: %w", err)
		}
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.consume(msgs)
	}()

	log.Println("Event consumer started")
	return nil
}

// consume handles incoming messages
func (c *EventConsumer) consume(msgs <-chan amqp091.Delivery) {
	for {
		select {
		case <-c.shutdown:
			log.Println("Stopping event consumer")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("Message channel closed, event consumer stopped")
				return
			}

			err := c.processMessage(msg)
			if err != nil {
				log.Printf("Error processing message: %v", err)
				// Negative acknowledgement, requeue the message
				if err := msg.Nack(false, true); err != nil {
					log.Printf("Error NACKing message: %v", err)
				}
			} else {
				if err := msg.Ack(false); err != nil {
					log.Printf("Error ACKing message: %v", err)
				}
			}
		}
	}
}

func (c *EventConsumer) processMessage(msg amqp091.Delivery) error {
	routingKey := msg.RoutingKey
	log.Printf("Processing message with routing key: %s", routingKey)

	switch routingKey {
	case string(EventTypeLookDeleted):
		return c.handleLookDeleted(msg.Body)
	case string(EventTypeImageReplaced):
		return c.handleImageReplaced(msg.Body)
	default:
		log.Printf("Unknown routing key: %s", routingKey)
		return nil // Acknowledge the message to avoid requeuing
	}
}

// handleLookDeleted removes every object still under the deleted look's
// prefix. The synchronous delete already removed the paths the records knew
// about; this catches blobs orphaned by earlier replacements.
func (c *EventConsumer) handleLookDeleted(body []byte) error {
	var event LookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal look deleted event: %w", err)
	}

	prefix := fmt.Sprintf("%s/%s/", event.OwnerID, event.LookID)
	return c.sweepPrefix(prefix, "")
}

// handleImageReplaced removes the superseded objects of one (look, kind)
// slot, keeping the path the replacement just wrote.
func (c *EventConsumer) handleImageReplaced(body []byte) error {
	var event ImageEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal image replaced event: %w", err)
	}

	prefix := fmt.Sprintf("%s/%s/%s/", event.OwnerID, event.LookID, event.Kind)
	return c.sweepPrefix(prefix, event.StoragePath)
}

func (c *EventConsumer) sweepPrefix(prefix, keepPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	keys, err := minio.ListFiles(ctx, c.bucket, prefix)
	if err != nil {
		return fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}

	stale := stalePaths(keys, keepPath)
	if len(stale) == 0 {
		return nil
	}

	if err := minio.RemoveFiles(ctx, c.bucket, stale); err != nil {
		return fmt.Errorf("failed to sweep objects under %s: %w", prefix, err)
	}

	log.Printf("Swept %d stale object(s) under %s", len(stale), prefix)
	return nil
}

// stalePaths filters a listing down to the keys to sweep. Object keys are
// case-sensitive, so the keep-path check is an exact match.
func stalePaths(keys []string, keepPath string) []string {
	var stale []string
	for _, key := range keys {
		if keepPath != "" && key == keepPath {
			continue
		}
		stale = append(stale, key)
	}
	return stale
}

// Close closes the consumer
func (c *EventConsumer) Close() error {
	close(c.shutdown)
	c.wg.Wait()

	if !c.enabled {
		return nil
	}

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Printf("Error closing RabbitMQ channel: %v", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
