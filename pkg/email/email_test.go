package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	dErrors "regcheck/pkg/domain-errors"
)

type fakeDeliverer struct {
	sent []*mail.Msg
	err  error
}

func (f *fakeDeliverer) DialAndSendWithContext(_ context.Context, msgs ...*mail.Msg) error {
	f.sent = append(f.sent, msgs...)
	return f.err
}

func TestSend(t *testing.T) {
	msg := Message{
		From:    "monitor@example.org",
		To:      []string{"ops@example.org", "oncall@example.org"},
		Subject: "Pending register checks",
		Text:    "body",
		HTML:    "<p>body</p>",
	}

	t.Run("builds envelope", func(t *testing.T) {
		fd := &fakeDeliverer{}
		s := &SMTPSender{client: fd}

		require.NoError(t, s.Send(context.Background(), msg))
		require.Len(t, fd.sent, 1)

		rcpts, err := fd.sent[0].GetRecipients()
		require.NoError(t, err)
		assert.ElementsMatch(t, msg.To, rcpts)
		assert.Equal(t, []string{msg.Subject}, fd.sent[0].GetGenHeader(mail.HeaderSubject))
	})

	t.Run("delivery failure is upstream", func(t *testing.T) {
		s := &SMTPSender{client: &fakeDeliverer{err: errors.New("connection refused")}}
		err := s.Send(context.Background(), msg)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUpstream))
	})

	t.Run("no recipients is rejected before dialing", func(t *testing.T) {
		fd := &fakeDeliverer{}
		s := &SMTPSender{client: fd}
		err := s.Send(context.Background(), Message{From: "a@example.org"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Empty(t, fd.sent)
	})
}

func TestNewSMTPSenderRequiresHost(t *testing.T) {
	_, err := NewSMTPSender(Config{})
	assert.Error(t, err)
}
