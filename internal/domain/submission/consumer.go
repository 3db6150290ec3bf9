package submission

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/masthead-press/masthead/internal/domain/events"
	"github.com/masthead-press/masthead/pkg/broker"
)

// Consumer defines an interface for consuming submission events
type Consumer interface {
	// Start starts the consumer
	Start(ctx context.Context) error

	// Stop stops the consumer
	Stop() error

	// IsRunning returns true if the consumer is running
	IsRunning() bool
}

// brokerConsumer implements the Consumer interface
type brokerConsumer struct {
	messageBroker broker.MessageBroker
	router        *Router
	logger        *logrus.Logger
	topicName     string
	subscription  broker.Subscription
	isRunning     bool
}

// NewBrokerConsumer creates a new submission consumer
func NewBrokerConsumer(
	messageBroker broker.MessageBroker,
	router *Router,
	logger *logrus.Logger) Consumer {

	return &brokerConsumer{
		messageBroker: messageBroker,
		router:        router,
		logger:        logger,
		topicName:     events.TopicSubmissions,
		isRunning:     false,
	}
}

// Start starts the consumer
func (c *brokerConsumer) Start(ctx context.Context) error {
	if c.isRunning {
		return errors.New("consumer already running")
	}

	// Ensure topic exists
	if err := c.messageBroker.CreateTopic(ctx, c.topicName); err != nil {
		c.logger.WithError(err).Error("Failed to create submissions topic")
		return err
	}

	sub, err := c.messageBroker.Subscribe(ctx, c.topicName, c.handleMessage)
	if err != nil {
		c.logger.WithError(err).Error("Failed to subscribe to submissions topic")
		return err
	}

	c.subscription = sub
	c.isRunning = true

	c.logger.WithFields(logrus.Fields{
		"topic":        c.topicName,
		"subscription": sub.ID(),
	}).Info("Submission consumer started")

	return nil
}

// Stop stops the consumer
func (c *brokerConsumer) Stop() error {
	if !c.isRunning {
		return nil
	}

	if c.subscription != nil {
		if err := c.subscription.Unsubscribe(); err != nil {
			c.logger.WithError(err).Error("Failed to unsubscribe from submissions topic")
			return err
		}
	}

	c.isRunning = false
	c.subscription = nil

	c.logger.Info("Submission consumer stopped")

	return nil
}

// IsRunning returns true if the consumer is running
func (c *brokerConsumer) IsRunning() bool {
	return c.isRunning
}

// handleMessage routes one submission event
func (c *brokerConsumer) handleMessage(ctx context.Context, message *broker.Message) error {
	c.logger.WithFields(logrus.Fields{
		"message_id": message.ID,
		"topic":      message.Topic,
	}).Debug("Received submission message")

	// Routing outlives the webhook request, so detach from its context
	processingCtx := context.Background()

	var ev events.SubmissionReceived
	if err := json.Unmarshal(message.Payload, &ev); err != nil {
		c.logger.WithError(err).Error("Failed to unmarshal submission message")
		return err
	}

	if err := c.router.Route(processingCtx, &ev); err != nil {
		c.logger.WithError(err).WithField("form_artifact_id", ev.FormArtifactID).
			Error("Failed to route submission")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"form_artifact_id": ev.FormArtifactID,
	}).Debug("Submission routed successfully")

	return nil
}
