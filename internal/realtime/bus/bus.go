// Package bus fans realtime messages out across server processes.
package bus

import (
	"context"

	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	// Transport names the bus in logs and metrics.
	Transport() string
	Close() error
}
