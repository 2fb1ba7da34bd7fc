package queue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"go.uber.org/zap"
)

// SQSAPI is the subset of *sqs.Client used by SQSQueue.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSOption func(*SQSQueue)

// WithWaitTime enables long polling for up to seconds on each Receive.
func WithWaitTime(seconds int32) SQSOption {
	return func(q *SQSQueue) {
		q.waitTime = seconds
	}
}

func WithVisibilityTimeout(seconds int32) SQSOption {
	return func(q *SQSQueue) {
		q.visibilityTimeout = seconds
	}
}

type SQSQueue struct {
	api               SQSAPI
	url               string
	waitTime          int32
	visibilityTimeout int32
	logger            *zap.SugaredLogger
}

func NewSQSQueue(api SQSAPI, queueURL string, opts ...SQSOption) *SQSQueue {
	q := &SQSQueue{
		api:    api,
		url:    queueURL,
		logger: zap.S().Named("sqs"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *SQSQueue) Receive(ctx context.Context) (*Message, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     q.waitTime,
	}
	if q.visibilityTimeout > 0 {
		input.VisibilityTimeout = q.visibilityTimeout
	}

	out, err := q.api.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive message from %s: %w", q.url, err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	m := out.Messages[0]
	return &Message{
		ID:      aws.ToString(m.MessageId),
		Body:    []byte(aws.ToString(m.Body)),
		Receipt: aws.ToString(m.ReceiptHandle),
	}, nil
}

func (q *SQSQueue) Delete(ctx context.Context, msg *Message) error {
	_, err := q.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.url),
		ReceiptHandle: aws.String(msg.Receipt),
	})
	if err != nil {
		return fmt.Errorf("failed to delete message %s from %s: %w", msg.ID, q.url, err)
	}
	return nil
}

// AccessURL returns the queue url. Access to SQS is granted by IAM policy, perm is only logged.
func (q *SQSQueue) AccessURL(_ context.Context, perm Permission) (string, error) {
	q.logger.Debugw("queue access url issued", "url", q.url, "permissions", perm.String())
	return q.url, nil
}
