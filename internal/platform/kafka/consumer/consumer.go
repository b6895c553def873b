// Package consumer runs a Kafka group consumer loop and hands records to a Handler.
package consumer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"regcheck/pkg/requestcontext"
)

// HeaderCorrelationID is the record header carrying the correlation id.
const HeaderCorrelationID = "correlation_id"

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// Handler processes one message. A nil return commits the record; an error
// leaves it uncommitted and the partition is rewound so it is redelivered.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error { return f(ctx, msg) }

// client is the slice of *kgo.Client the loop needs.
type client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	MarkCommitRecords(rs ...*kgo.Record)
	CommitMarkedOffsets(ctx context.Context) error
	SetOffsets(setOffsets map[string]map[int32]kgo.EpochOffset)
}

// Consumer drives the poll loop.
type Consumer struct {
	client       client
	handler      Handler
	logger       *slog.Logger
	retryBackoff time.Duration
	now          func() time.Time
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithRetryBackoff sets the pause after a failed record before it is redelivered.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Consumer) {
		c.retryBackoff = d
	}
}

// WithClock overrides the clock used for the request-scoped time.
func WithClock(now func() time.Time) Option {
	return func(c *Consumer) {
		c.now = now
	}
}

func New(cl *kgo.Client, handler Handler, logger *slog.Logger, opts ...Option) *Consumer {
	return newConsumer(cl, handler, logger, opts...)
}

func newConsumer(cl client, handler Handler, logger *slog.Logger, opts ...Option) *Consumer {
	c := &Consumer{
		client:       cl,
		handler:      handler,
		logger:       logger,
		retryBackoff: time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if fetches.IsClientClosed() {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.logger.Error("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})

		failed := c.process(ctx, fetches)
		if err := c.client.CommitMarkedOffsets(ctx); err != nil && ctx.Err() == nil {
			c.logger.Error("kafka commit failed", "error", err)
		}
		if failed && c.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryBackoff):
			}
		}
	}
}

// process handles each partition in order. On the first failure in a
// partition the remaining records of that partition are skipped and the fetch
// position is rewound to the failed record.
func (c *Consumer) process(ctx context.Context, fetches kgo.Fetches) bool {
	failed := false
	fetches.EachPartition(func(p kgo.FetchTopicPartition) {
		for _, rec := range p.Records {
			if err := c.handle(ctx, rec); err != nil {
				failed = true
				c.logger.ErrorContext(ctx, "message handling failed, will redeliver",
					"topic", rec.Topic,
					"partition", rec.Partition,
					"offset", rec.Offset,
					"error", err,
				)
				c.client.SetOffsets(map[string]map[int32]kgo.EpochOffset{
					rec.Topic: {rec.Partition: {Epoch: rec.LeaderEpoch, Offset: rec.Offset}},
				})
				return
			}
			c.client.MarkCommitRecords(rec)
		}
	})
	return failed
}

func (c *Consumer) handle(ctx context.Context, rec *kgo.Record) error {
	msg := toMessage(rec)
	reqID := msg.Headers[HeaderCorrelationID]
	if reqID == "" {
		reqID = string(msg.Key)
	}
	ctx = requestcontext.WithRequestID(ctx, reqID)
	ctx = requestcontext.WithTime(ctx, c.now())
	return c.handler.Handle(ctx, msg)
}

func toMessage(rec *kgo.Record) *Message {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       rec.Key,
		Value:     rec.Value,
		Headers:   headers,
		Timestamp: rec.Timestamp,
	}
}
