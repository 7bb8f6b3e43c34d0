package iot

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/service/parkinglots"
)

const receiveRetryDelay = 5 * time.Second

// Options параметры long polling очереди
type Options struct {
	QueueURL          string
	WaitTimeSeconds   int32
	MaxMessages       int32
	VisibilityTimeout int32
}

// SQSConsumer читает сигналы концентраторов из SQS и передает их сервису парковок.
// Сообщение удаляется только после успешной обработки или если его нельзя обработать никогда.
type SQSConsumer struct {
	client     SQSAPI
	opts       Options
	service    ParkinglotService
	logger     Logger
	retryDelay time.Duration
}

// NewSQSConsumer создает консьюмер сигналов концентраторов
func NewSQSConsumer(client SQSAPI, opts Options, service ParkinglotService, logger Logger) *SQSConsumer {
	return &SQSConsumer{
		client:     client,
		opts:       opts,
		service:    service,
		logger:     logger,
		retryDelay: receiveRetryDelay,
	}
}

// Run читает очередь до отмены контекста
func (c *SQSConsumer) Run(ctx context.Context) error {
	c.logger.Info("SQSConsumer.Run: listening queue %s", c.opts.QueueURL)
	for {
		if ctx.Err() != nil {
			c.logger.Info("SQSConsumer.Run: stopped")
			return nil
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.opts.QueueURL),
			MaxNumberOfMessages: c.opts.MaxMessages,
			WaitTimeSeconds:     c.opts.WaitTimeSeconds,
			VisibilityTimeout:   c.opts.VisibilityTimeout,
		})
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("SQSConsumer.Run: stopped")
				return nil
			}
			c.logger.Error("SQSConsumer.Run: failed to receive messages: %v", err)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				c.logger.Info("SQSConsumer.Run: stopped")
				return nil
			}
			continue
		}

		for _, m := range out.Messages {
			c.process(ctx, m)
		}
	}
}

// process обрабатывает одно сообщение. При временной ошибке сообщение остается в очереди
// и вернется после visibility timeout.
func (c *SQSConsumer) process(ctx context.Context, m types.Message) {
	messageID := aws.ToString(m.MessageId)

	if m.Body == nil {
		c.logger.Warn("SQSConsumer.process: empty body in message %s, deleting", messageID)
		c.delete(ctx, m.ReceiptHandle)
		return
	}

	err := c.handle(ctx, *m.Body)
	switch {
	case err == nil:
		c.delete(ctx, m.ReceiptHandle)
	case permanent(err):
		c.logger.Warn("SQSConsumer.process: dropping message %s: %v", messageID, err)
		c.delete(ctx, m.ReceiptHandle)
	default:
		c.logger.Error("SQSConsumer.process: failed to handle message %s, will be redelivered: %v", messageID, err)
	}
}

func (c *SQSConsumer) handle(ctx context.Context, body string) error {
	s, err := parseSignal(body)
	if err != nil {
		return err
	}

	if s.action == ActionTake {
		err = c.service.TakeSpace(ctx, s.parkinglotID, s.concentratorID, s.spaceID)
	} else {
		err = c.service.LeaveSpace(ctx, s.parkinglotID, s.concentratorID, s.spaceID)
	}
	if err != nil {
		return err
	}

	c.logger.Info("SQSConsumer.handle: %s space=%s parkinglot=%s", s.action, s.spaceID, s.parkinglotID)
	return nil
}

// permanent ошибки, которые не исчезнут при повторной доставке
func permanent(err error) bool {
	return errors.Is(err, ErrMalformedSignal) ||
		errors.Is(err, ErrUnknownAction) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, parkinglots.ErrParkinglotNotFound)
}

func (c *SQSConsumer) delete(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		c.logger.Warn("SQSConsumer.delete: empty receipt handle, cannot delete message")
		return
	}
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.opts.QueueURL),
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.logger.Error("SQSConsumer.delete: failed to delete message: %v", err)
	}
}
