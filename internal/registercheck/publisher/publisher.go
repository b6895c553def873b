// Package publisher routes finalized outcomes to the result topic of their
// source type and forwards ingestion events to the replication topic.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"regcheck/internal/platform/metrics"
	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/requestcontext"
)

// Sender writes one keyed record and returns once it is acknowledged.
type Sender interface {
	Send(ctx context.Context, topic string, key, value []byte) error
}

// Publisher delivers at least once and never deduplicates. Consumers of the
// result topics key on sourceCorrelationId.
type Publisher struct {
	sender           Sender
	topics           map[models.SourceType]string
	replicationTopic string
	metrics          *metrics.Metrics
	logger           *slog.Logger
}

type Option func(*Publisher)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// New fails when any source type lacks a result topic, so an unmapped
// category is caught at startup rather than on the first result.
func New(sender Sender, topics map[models.SourceType]string, replicationTopic string, opts ...Option) (*Publisher, error) {
	routes := make(map[models.SourceType]string, len(topics))
	for _, st := range models.SourceTypes() {
		topic := topics[st]
		if topic == "" {
			return nil, fmt.Errorf("no result topic configured for source type %s", st)
		}
		routes[st] = topic
	}
	p := &Publisher{
		sender:           sender,
		topics:           routes,
		replicationTopic: replicationTopic,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// TopicFor returns the result topic of st.
func (p *Publisher) TopicFor(st models.SourceType) (string, bool) {
	topic, ok := p.topics[st]
	return topic, ok
}

// PublishResult sends evt to its source type's topic keyed by sourceCorrelationId.
func (p *Publisher) PublishResult(ctx context.Context, evt models.FinalizedResult) error {
	topic, ok := p.topics[evt.SourceType]
	if !ok {
		return dErrors.Newf(dErrors.CodeInternal, "no result topic for source type %s", evt.SourceType)
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode finalized result")
	}
	if err := p.sender.Send(ctx, topic, []byte(evt.SourceCorrelationID), value); err != nil {
		p.metrics.IncPublishFailure(topic)
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to publish finalized result")
	}
	p.logger.InfoContext(ctx, "finalized result published",
		"request_id", requestcontext.RequestID(ctx),
		"topic", topic,
		"source_type", evt.SourceType,
		"result", evt.Result,
	)
	return nil
}

// Replicate forwards raw unchanged apart from an added correlationId field.
func (p *Publisher) Replicate(ctx context.Context, raw json.RawMessage, correlationID id.CorrelationID) error {
	if p.replicationTopic == "" {
		return dErrors.New(dErrors.CodeInternal, "replication topic is not configured")
	}
	value, err := withCorrelationID(raw, correlationID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode replicated event")
	}
	if err := p.sender.Send(ctx, p.replicationTopic, []byte(correlationID.String()), value); err != nil {
		p.metrics.IncPublishFailure(p.replicationTopic)
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to forward event for replication")
	}
	return nil
}

// ForwardRemoval forwards a remove-data event unchanged, keyed by its source reference.
func (p *Publisher) ForwardRemoval(ctx context.Context, raw json.RawMessage, sourceReference string) error {
	if p.replicationTopic == "" {
		return dErrors.New(dErrors.CodeInternal, "replication topic is not configured")
	}
	if err := p.sender.Send(ctx, p.replicationTopic, []byte(sourceReference), raw); err != nil {
		p.metrics.IncPublishFailure(p.replicationTopic)
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to forward removal for replication")
	}
	return nil
}

func withCorrelationID(raw json.RawMessage, correlationID id.CorrelationID) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
	}
	cid, err := json.Marshal(correlationID)
	if err != nil {
		return nil, err
	}
	fields["correlationId"] = cid
	return json.Marshal(fields)
}
