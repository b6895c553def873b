//go:build integration

package containers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer wraps a single-node Kafka-compatible broker.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

func startRedpanda() (*RedpandaContainer, error) {
	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4",
		tcredpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, fmt.Errorf("start redpanda: %w", err)
	}

	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("redpanda seed broker: %w", err)
	}

	return &RedpandaContainer{Container: container, Brokers: []string{broker}}, nil
}
