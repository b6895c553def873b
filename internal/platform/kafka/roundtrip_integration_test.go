//go:build integration

package kafka_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"regcheck/internal/platform/kafka"
	"regcheck/internal/platform/kafka/consumer"
	"regcheck/internal/platform/kafka/producer"
	"regcheck/pkg/requestcontext"
	"regcheck/pkg/testutil/containers"
)

type RoundTripSuite struct {
	suite.Suite
	brokers []string
}

func TestRoundTripSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RoundTripSuite))
}

func (s *RoundTripSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *RoundTripSuite) TestProduceThenConsumeRedeliversFailure() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	const topic = "roundtrip-initiate"

	pcl, err := kafka.NewProducerClient(s.brokers)
	s.Require().NoError(err)
	defer pcl.Close()
	s.Require().NoError(kafka.EnsureTopics(ctx, pcl, 1, 1, topic))
	s.Require().NoError(kafka.EnsureTopics(ctx, pcl, 1, 1, topic), "existing topics are not an error")

	p := producer.New(pcl)
	s.Require().NoError(p.Send(requestcontext.WithRequestID(ctx, "corr-1"), topic, []byte("k"), []byte("v")))

	ccl, err := kafka.NewConsumerClient(s.brokers, "roundtrip", []string{topic})
	s.Require().NoError(err)
	defer ccl.Close()

	attempts := 0
	done := make(chan string, 1)
	h := consumer.HandlerFunc(func(ctx context.Context, msg *consumer.Message) error {
		attempts++
		if attempts == 1 {
			return context.DeadlineExceeded
		}
		done <- requestcontext.RequestID(ctx)
		return nil
	})

	runCtx, stop := context.WithCancel(ctx)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	go func() { _ = consumer.New(ccl, h, logger, consumer.WithRetryBackoff(100*time.Millisecond)).Run(runCtx) }()

	select {
	case id := <-done:
		s.Equal("corr-1", id)
		s.Equal(2, attempts)
	case <-ctx.Done():
		s.Fail("message was not redelivered")
	}
	stop()
}
