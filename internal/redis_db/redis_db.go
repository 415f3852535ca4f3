package redisdb

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	Addr       string
	Password   string
	Username   string
	ClientName string
	DB         int
}

func ConfigFromEnv() Config {
	return Config{
		Addr:       appenv.String("REDIS_ADDR", "localhost:6379"),
		Password:   appenv.String("REDIS_PASSWORD", ""),
		Username:   appenv.String("REDIS_USERNAME", ""),
		ClientName: appenv.EnvName + "_" + appenv.String("REDIS_CLIENT_NAME", "zeau_landing"),
		DB:         appenv.Int("REDIS_DB", 0),
	}
}

// NewRedisClient connects and pings the server. The client is closed on a failed ping.
func NewRedisClient(ctx context.Context, conf Config, log zerolog.Logger) (*redis.Client, error) {
	log.Info().Msgf("Connecting to redis server on address=%s, username=%s, clientName=%s .....", conf.Addr, conf.Username, conf.ClientName)

	readTimeout := 3 * time.Second
	client := redis.NewClient(&redis.Options{
		Addr:            conf.Addr,
		Network:         "tcp",
		Password:        conf.Password,
		Username:        conf.Username,
		ClientName:      conf.ClientName,
		DB:              conf.DB,
		Protocol:        3,
		ConnMaxIdleTime: 30 * time.Minute,
		IdentitySuffix:  appenv.EnvName,
		MaxIdleConns:    1,
		PoolSize:        10 * runtime.NumCPU(),
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		MaxRetries:      3,
		ReadTimeout:     readTimeout,
		WriteTimeout:    3 * time.Second,
		DialTimeout:     5 * time.Second,
		PoolTimeout:     readTimeout + time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: can not PING the server: %w", err)
	}
	log.Info().Msgf("Connected to redis server on address=%s", conf.Addr)

	return client, nil
}
