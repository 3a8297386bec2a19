package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jrschumacher/integrationhub/internal/logger"
)

// Service wraps the database connection together with its driver
type Service struct {
	db     *sql.DB
	driver DatabaseDriver
}

// NewService creates a new database service instance
func NewService(databaseURL, appEnv string) (*Service, error) {
	db, driver, err := OpenDatabase(databaseURL, appEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger.Info("Database service initialized", "driver", string(driver))

	return &Service{
		db:     db,
		driver: driver,
	}, nil
}

// Close closes the database connection
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database connection
func (s *Service) DB() *sql.DB {
	return s.db
}

// Driver returns the database driver type
func (s *Service) Driver() DatabaseDriver {
	return s.driver
}

// Rebind rewrites query placeholders for this service's driver.
func (s *Service) Rebind(query string) string {
	return Rebind(s.driver, query)
}

// Ping checks the connection is still usable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
