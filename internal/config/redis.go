package config

// Redis backs the dashboard session store and the rate limiter.  When the
// server cannot be reached at startup the constructor returns nil and
// callers degrade: sessions fall back to process memory and rate limiting
// is disabled.

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// RedisConfig is read from the environment.  REDIS_HOST and REDIS_PORT
// take precedence over REDIS_ADDR when both are set.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	TLS      bool   `env:"REDIS_TLS" envDefault:"false"`
}

// LoadRedisConfig parses the REDIS_* variables.  Parse errors yield the
// defaults.
func LoadRedisConfig() RedisConfig {
	var rc RedisConfig
	if err := env.Parse(&rc); err != nil {
		slog.Warn("invalid redis configuration, using defaults", "error", err)
		return RedisConfig{Addr: "localhost:6379"}
	}
	return rc
}

// Address returns host:port for the configured server.
func (rc RedisConfig) Address() string {
	if rc.Host != "" && rc.Port != "" {
		return rc.Host + ":" + rc.Port
	}
	return rc.Addr
}

// NewRedisClient instantiates a client and pings it with a short timeout.
// The returned client is nil if the server cannot be reached.
func NewRedisClient(rc RedisConfig) *redis.Client {
	var tlsConf *tls.Config
	if rc.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      rc.Address(),
		Password:  rc.Password,
		DB:        rc.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable", "addr", rc.Address(), "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
