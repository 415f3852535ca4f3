package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Service struct {
	ConnPool *pgxpool.Pool
	log      zerolog.Logger
	name     string
}

type Config struct {
	Database     string
	Password     string
	Username     string
	Port         string
	Host         string
	PoolMaxConns int
}

func ConfigFromEnv() Config {
	return Config{
		Database:     appenv.String("DB_DATABASE", ""),
		Password:     appenv.String("DB_PASSWORD", ""),
		Username:     appenv.String("DB_USERNAME", ""),
		Port:         appenv.String("DB_PORT", "5432"),
		Host:         appenv.String("DB_HOST", "localhost"),
		PoolMaxConns: appenv.Int("DB_POOL_MAX_CONNS", 4),
	}
}

func (c Config) validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE env var is empty"))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("DB_USERNAME env var is empty"))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("DB_HOST env var is empty"))
	}
	return errors.Join(errs...)
}

func (c Config) connString() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=%d",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.PoolMaxConns,
	)
}

// NewConnection opens the pool, pings it and brings the schema up to date.
func NewConnection(ctx context.Context, conf Config, log zerolog.Logger) (*Service, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	log.Info().Msgf("Connecting to database: %s on port: %s .....", conf.Database, conf.Port)
	connectionPool, err := pgxpool.New(ctx, conf.connString())
	if err != nil {
		return nil, err
	}
	if err = connectionPool.Ping(ctx); err != nil {
		connectionPool.Close()
		return nil, err
	}
	log.Info().Msgf("Connected to database: %s on port: %s", conf.Database, conf.Port)

	if err = runMigrationsUp(connectionPool); err != nil {
		connectionPool.Close()
		return nil, fmt.Errorf("database: migrations: %w", err)
	}

	return &Service{ConnPool: connectionPool, log: log, name: conf.Database}, nil
}

// Health pings the database and reports a few pool statistics.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	stats := make(map[string]string)

	err := s.ConnPool.Ping(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.log.Error().Err(err).Msg("db down")
		return stats
	}

	stats["status"] = "up"
	stats["message"] = "It's healthy"

	dbStats := s.ConnPool.Stat()
	stats["acquired_connections"] = strconv.Itoa(int(dbStats.AcquiredConns()))
	stats["idle_connections"] = strconv.Itoa(int(dbStats.IdleConns()))
	stats["max_conns"] = strconv.Itoa(int(dbStats.MaxConns()))
	stats["acquire_duration"] = dbStats.AcquireDuration().String()

	return stats
}

func (s *Service) Close() {
	s.log.Info().Msgf("Disconnected from database: %s", s.name)
	s.ConnPool.Close()
}
