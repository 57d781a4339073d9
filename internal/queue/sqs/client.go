package sqs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	envConfig "github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/queue"
)

const (
	userIDAttribute   = "UserId"
	receiveRetryDelay = 1 * time.Second
)

// API is the subset of the SQS client used here
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	GetQueueAttributes(ctx context.Context, params *sqs.GetQueueAttributesInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueAttributesOutput, error)
}

// Client implements queue.Producer and queue.Subscriber on top of an SQS queue.
// Receive is not safe for concurrent use; the consumer loop is its only caller.
type Client struct {
	api     API
	config  envConfig.SQS
	log     *zap.Logger
	pending []types.Message
}

// NewClient creates a new SQS client
func NewClient(ctx context.Context, SQSConfig envConfig.SQS, log *zap.Logger) (*Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(SQSConfig.Region),
	}

	var clientOpts []func(*sqs.Options)

	// Configure for local development with ElasticMQ
	if SQSConfig.Endpoint != "" {
		log.Info("Configuring SQS for local development",
			zap.String("endpoint", SQSConfig.Endpoint))
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")))

		clientOpts = append(clientOpts, func(o *sqs.Options) {
			o.BaseEndpoint = aws.String(SQSConfig.Endpoint)
		})
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("SQS client created",
		zap.String("region", SQSConfig.Region),
		zap.String("queue_url", SQSConfig.QueueURL))

	return NewClientWithAPI(sqs.NewFromConfig(cfg, clientOpts...), SQSConfig, log), nil
}

// NewClientWithAPI wraps an existing SQS API implementation
func NewClientWithAPI(api API, SQSConfig envConfig.SQS, log *zap.Logger) *Client {
	return &Client{api: api, config: SQSConfig, log: log}
}

// Send publishes body to the queue, carrying key as a message attribute
func (c *Client) Send(ctx context.Context, key string, body []byte) error {
	_, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.config.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			userIDAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(key),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	return nil
}

// Subscribe checks that the queue exists and is reachable
func (c *Client) Subscribe(ctx context.Context) error {
	_, err := c.api.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl:       aws.String(c.config.QueueURL),
		AttributeNames: []types.QueueAttributeName{types.QueueAttributeNameQueueArn},
	})
	if err != nil {
		return fmt.Errorf("failed to reach SQS queue %s: %w", c.config.QueueURL, err)
	}

	c.log.Info("Subscribed to SQS queue", zap.String("queue_url", c.config.QueueURL))
	return nil
}

// Receive returns the next message, long polling the queue when the local
// buffer is empty. Transient receive errors are retried; a missing queue is fatal.
func (c *Client) Receive(ctx context.Context) (*queue.Message, error) {
	for len(c.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(c.config.QueueURL),
			MaxNumberOfMessages:   c.config.MaxMessages,
			WaitTimeSeconds:       c.config.WaitTimeSeconds,
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			var missing *types.QueueDoesNotExist
			if errors.As(err, &missing) || ctx.Err() != nil {
				return nil, fmt.Errorf("failed to receive messages from SQS: %w", err)
			}

			c.log.Error("Error receiving messages from SQS", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(receiveRetryDelay):
			}
			continue
		}

		c.pending = append(c.pending, result.Messages...)
	}

	msg := c.pending[0]
	c.pending = c.pending[1:]

	var key string
	if attr, ok := msg.MessageAttributes[userIDAttribute]; ok {
		key = aws.ToString(attr.StringValue)
	}

	return queue.NewMessage(aws.ToString(msg.MessageId), key, []byte(aws.ToString(msg.Body)), time.Time{}, msg), nil
}

// Commit deletes the message from the queue
func (c *Client) Commit(ctx context.Context, msg *queue.Message) error {
	m, ok := msg.Handle().(types.Message)
	if !ok {
		return fmt.Errorf("message %s was not received from SQS", msg.ID)
	}

	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.config.QueueURL),
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %s from SQS: %w", msg.ID, err)
	}
	return nil
}

// Close is a no-op; the SQS client holds no connection of its own
func (c *Client) Close() error {
	return nil
}
