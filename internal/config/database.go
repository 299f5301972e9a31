package config

import (
	"fmt"
	"time"

	"oneshot-backend/internal/infrastructure/database"
	"oneshot-backend/internal/shared/utils"
)

// LoadDatabaseConfig builds the pgx pool configuration from environment variables
func LoadDatabaseConfig(db DatabaseConfig) (*database.DBConfig, error) {
	maxConns := utils.GetEnvInt("DB_MAX_CONNECTIONS", 25)
	minConns := utils.GetEnvInt("DB_MIN_CONNECTIONS", 5)
	if minConns > maxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", minConns, maxConns)
	}

	maxRetries := utils.GetEnvInt("DB_MAX_RETRIES", 5)
	if maxRetries < 1 {
		return nil, fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}

	return &database.DBConfig{
		Host:              db.Host,
		Port:              db.Port,
		Username:          db.User,
		Password:          db.Password,
		DBName:            db.Database,
		SSLMode:           db.SSLMode,
		MaxConns:          int32(maxConns),
		MinConns:          int32(minConns),
		MaxConnLifetime:   utils.GetEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   utils.GetEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: utils.GetEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		MaxRetries:        maxRetries,
		RetryDelay:        utils.GetEnvDuration("DB_RETRY_DELAY", time.Second),
		ConnectTimeout:    utils.GetEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}, nil
}
