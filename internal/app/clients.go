package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AntonEmtsov/foodgram-project-react/internal/pkg/logger"
	"github.com/AntonEmtsov/foodgram-project-react/internal/realtime/bus"
)

type Clients struct {
	Redis *goredis.Client
	Bus   bus.Bus
}

// wireClients connects to Redis when an address is configured and falls back
// to the in-process bus otherwise.
func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		log.Info("REDIS_ADDR not set, using in-process event bus")
		return Clients{Bus: bus.NewMemoryBus()}, nil
	}
	rdb, err := bus.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis client: %w", err)
	}
	b, err := bus.NewRedisBus(log, rdb, cfg.Redis.Channel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis bus: %w", err)
	}
	return Clients{Redis: rdb, Bus: b}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
