package broker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrTopicNotFound = errors.New("topic not found")
	ErrBrokerClosed  = errors.New("broker is closed")
	ErrQueueFull     = errors.New("queue is full")
)

// Message represents a generic message in the message queue
type Message struct {
	ID          string            `json:"id"`
	Topic       string            `json:"topic"`
	Payload     []byte            `json:"payload"`
	PublishedAt time.Time         `json:"published_at"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// MessageHandler is a function that processes messages
type MessageHandler func(context.Context, *Message) error

// MessageBroker defines an interface for a message broker
type MessageBroker interface {
	// Publish publishes a message to a topic
	Publish(ctx context.Context, topic string, payload []byte, attributes map[string]string) error

	// Subscribe subscribes to a topic with a handler function
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error)

	// CreateTopic creates a new topic if it doesn't exist
	CreateTopic(ctx context.Context, topic string) error

	// Close closes the message broker
	Close() error
}

// Subscription represents a subscription to a topic
type Subscription interface {
	// ID returns the subscription ID
	ID() string

	// Topic returns the topic name
	Topic() string

	// Unsubscribe unsubscribes from the topic
	Unsubscribe() error

	// IsClosed returns true if the subscription is closed
	IsClosed() bool
}

// InMemoryBroker is a simple in-memory implementation of MessageBroker.
// Each published message is delivered asynchronously to every current
// subscriber of its topic; delivery is at-most-once and retains nothing.
type InMemoryBroker struct {
	subscriptions map[string]map[string]MessageHandler
	pending       map[string]int
	mu            sync.RWMutex
	logger        *logrus.Logger
	queueSize     int
	closed        bool
	wg            sync.WaitGroup
}

type subscription struct {
	id     string
	topic  string
	broker *InMemoryBroker
	closed bool
}

// NewInMemoryBroker creates a new in-memory message broker
func NewInMemoryBroker(logger *logrus.Logger, queueSize int) *InMemoryBroker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &InMemoryBroker{
		subscriptions: make(map[string]map[string]MessageHandler),
		pending:       make(map[string]int),
		logger:        logger,
		queueSize:     queueSize,
	}
}

// CreateTopic creates a new topic
func (b *InMemoryBroker) CreateTopic(ctx context.Context, topic string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	if _, exists := b.subscriptions[topic]; !exists {
		b.subscriptions[topic] = make(map[string]MessageHandler)
	}
	return nil
}

// Publish publishes a message to a topic
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, payload []byte, attributes map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	if _, exists := b.subscriptions[topic]; !exists {
		b.subscriptions[topic] = make(map[string]MessageHandler)
	}
	if b.pending[topic] >= b.queueSize {
		return ErrQueueFull
	}

	msg := &Message{
		ID:          uuid.New().String(),
		Topic:       topic,
		Payload:     payload,
		PublishedAt: time.Now(),
		Attributes:  attributes,
	}

	for _, handler := range b.subscriptions[topic] {
		b.pending[topic]++
		b.wg.Add(1)
		go b.deliver(topic, handler, msg)
	}
	return nil
}

// Subscribe subscribes to a topic
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, handler MessageHandler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}
	if _, exists := b.subscriptions[topic]; !exists {
		b.subscriptions[topic] = make(map[string]MessageHandler)
	}

	subID := uuid.New().String()
	b.subscriptions[topic][subID] = handler

	return &subscription{id: subID, topic: topic, broker: b}, nil
}

// deliver runs a handler against a message. A fresh background context is
// used so that the publisher's request context cannot cancel processing
// mid-flight.
func (b *InMemoryBroker) deliver(topic string, handler MessageHandler, msg *Message) {
	defer b.wg.Done()
	defer func() {
		b.mu.Lock()
		b.pending[topic]--
		b.mu.Unlock()
	}()

	if err := handler(context.Background(), msg); err != nil {
		b.logger.WithError(err).WithFields(logrus.Fields{
			"message_id": msg.ID,
			"topic":      topic,
		}).Error("Error processing message")
	}
}

// Close closes the broker after in-flight deliveries drain
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.subscriptions = make(map[string]map[string]MessageHandler)
	b.mu.Unlock()

	b.wg.Wait()
	return nil
}

// Wait blocks until every in-flight delivery has completed. Intended for
// tests and shutdown paths.
func (b *InMemoryBroker) Wait() {
	b.wg.Wait()
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Topic() string {
	return s.topic
}

func (s *subscription) IsClosed() bool {
	return s.closed
}

func (s *subscription) Unsubscribe() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()

	if s.closed {
		return nil
	}
	if subs, ok := s.broker.subscriptions[s.topic]; ok {
		delete(subs, s.id)
	}
	s.closed = true
	return nil
}
