// Package producer sends keyed records and waits for broker acknowledgement.
package producer

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"regcheck/pkg/requestcontext"
)

// HeaderCorrelationID mirrors the consumer header so ids survive hops.
const HeaderCorrelationID = "correlation_id"

type syncProducer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Producer sends one record at a time synchronously.
type Producer struct {
	client syncProducer
}

func New(cl *kgo.Client) *Producer {
	return &Producer{client: cl}
}

// Send writes value to topic under key and returns once it is acknowledged.
// The current request id, when set, travels as a header.
func (p *Producer) Send(ctx context.Context, topic string, key, value []byte) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if reqID := requestcontext.RequestID(ctx); reqID != "" {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: HeaderCorrelationID, Value: []byte(reqID)})
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}
