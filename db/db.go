// Package db provides database connectivity and migration functionality for the
// smart agriculture backend. It establishes the pgx connection pool used by the
// credential and prediction stores and applies SQL-file migrations at startup.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver for migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file-based migration source
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // database/sql driver used by migrate's postgres driver

	"github.com/apexcoders/smart-agriculture-backend/apperror"
	"github.com/apexcoders/smart-agriculture-backend/config"
)

// NewPool establishes a pgxpool connection pool from the given configuration.
// The pool is pinged before being returned so a dead database fails startup
// instead of the first request.
func NewPool(cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&pool_max_conns=%d",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.MaxSize,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Bound pool creation so an unreachable database does not block forever.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s", cfg.DBName), err)
	}

	return pool, nil
}

// getDSN constructs a DSN string from PoolConfig, suitable for golang-migrate.
// migrate's postgres driver uses lib/pq under the hood and does not understand
// pgx pool parameters, so the DSN is the plain form.
func getDSN(cfg *config.PoolConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName,
	)
}

// RunMigrations applies any pending database migrations from the specified
// migrations directory. Versioning and execution are handled by golang-migrate;
// an already up-to-date schema is not an error.
func RunMigrations(cfg *config.PoolConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, getDSN(cfg))
	if err != nil {
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			if srcErr != nil {
				fmt.Printf("Warning: error closing migration source: %v\n", srcErr)
			}
			if dbErr != nil {
				fmt.Printf("Warning: error closing migration database instance: %v\n", dbErr)
			}
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	return nil
}
