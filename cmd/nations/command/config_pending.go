package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-nations/internal/transfer"
	"github.com/redis/go-redis/v9"
)

type PendingBackend string

const (
	PendingBackendMemory PendingBackend = "memory"
	PendingBackendRedis  PendingBackend = "redis"
)

type PendingConfig struct {
	Backend PendingBackend `json:"backend"`
	TTL     string         `json:"ttl"`
	Redis   RedisConfig    `json:"redis"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (c *PendingConfig) validate() error {
	el := errors.NewErrorList()

	ttl, err := parseDuration("ttl", c.TTL, transfer.DefaultTTL)
	if err != nil {
		el.Add(err)
	} else if ttl < 0 {
		el.Add(fmt.Errorf("ttl must not be negative"))
	}

	switch c.Backend {
	case "", PendingBackendMemory:
	case PendingBackendRedis:
		if c.Redis.Addr == "" {
			el.Add(fmt.Errorf("redis.addr is required for the redis backend"))
		}
		if c.Redis.DB < 0 {
			el.Add(fmt.Errorf("redis.db must not be negative"))
		}
	default:
		el.Add(fmt.Errorf("unknown pending backend: %s", c.Backend))
	}

	return el.Err()
}

func (c *PendingConfig) ttl() time.Duration {
	d, _ := parseDuration("ttl", c.TTL, transfer.DefaultTTL)
	return d
}

// pendingStore builds the configured store. The memory store is returned
// separately since it needs the driver to purge it; the redis client needs
// closing on shutdown.
func (c *PendingConfig) pendingStore() (transfer.PendingStore, *transfer.MemoryStore, *redis.Client) {
	if c.Backend == PendingBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
		return transfer.NewRedisStore(client, c.ttl()), nil, client
	}

	mem := transfer.NewMemoryStore(c.ttl())
	return mem, mem, nil
}
