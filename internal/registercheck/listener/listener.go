// Package listener turns queue records into register check service calls.
//
// Malformed or invalid events are logged and committed; retrying them cannot
// succeed. Any other failure is returned so the record is redelivered.
package listener

import (
	"context"
	"encoding/json"
	"log/slog"

	"regcheck/internal/platform/kafka/consumer"
	"regcheck/internal/registercheck/models"
	dErrors "regcheck/pkg/domain-errors"
	"regcheck/pkg/requestcontext"
)

// Service is the slice of the register check service driven by events.
type Service interface {
	Ingest(ctx context.Context, evt models.InitiateCheck) (*models.RegisterCheck, error)
	Remove(ctx context.Context, evt models.RemoveCheckData) (int, error)
}

type Listener struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Listener {
	return &Listener{service: service, logger: logger}
}

// Register binds the two inbound topics on router.
func (l *Listener) Register(router *consumer.Router, initiateTopic, removeTopic string) {
	router.Register(initiateTopic, consumer.HandlerFunc(l.HandleInitiate))
	router.Register(removeTopic, consumer.HandlerFunc(l.HandleRemove))
}

func (l *Listener) HandleInitiate(ctx context.Context, msg *consumer.Message) error {
	var evt models.InitiateCheck
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		l.discard(ctx, msg, "undecodable initiate event", err)
		return nil
	}
	evt.Raw = json.RawMessage(msg.Value)

	if _, err := l.service.Ingest(ctx, evt); err != nil {
		if permanent(err) {
			l.discard(ctx, msg, "invalid initiate event", err)
			return nil
		}
		return err
	}
	return nil
}

func (l *Listener) HandleRemove(ctx context.Context, msg *consumer.Message) error {
	var evt models.RemoveCheckData
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		l.discard(ctx, msg, "undecodable remove event", err)
		return nil
	}
	evt.Raw = json.RawMessage(msg.Value)

	if _, err := l.service.Remove(ctx, evt); err != nil {
		if permanent(err) {
			l.discard(ctx, msg, "invalid remove event", err)
			return nil
		}
		return err
	}
	return nil
}

func (l *Listener) discard(ctx context.Context, msg *consumer.Message, reason string, err error) {
	l.logger.WarnContext(ctx, reason,
		"request_id", requestcontext.RequestID(ctx),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"error", err,
	)
}

func permanent(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return true
	}
	return false
}
