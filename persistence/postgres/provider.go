// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package postgres implements persistence.StorageProvider on top of PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/go-dataspace/agri-admin/logging"
	"github.com/go-dataspace/agri-admin/persistence"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migration driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // database driver
)

//go:embed migrations/*.sql
var migrations embed.FS

var _ persistence.StorageProvider = &Provider{}

// Provider is a StorageProvider instance for the postgres backend.
type Provider struct {
	db *sql.DB
}

// New opens a database handle and verifies the connection.
func New(ctx context.Context, dsn string) (*Provider, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("couldn't ping database: %w", err)
	}
	return &Provider{db: db}, nil
}

// NewWithDB wraps an existing handle.
func NewWithDB(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Migrate applies all pending migrations. It is a no-op when the schema is up to date.
func Migrate(ctx context.Context, dsn string) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("couldn't initialise iofs: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("couldn't initialise migration: %w", err)
	}
	defer m.Close()
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logging.Extract(ctx).Debug("Database schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logging.Extract(ctx).Info("Database migrated")
	return nil
}

// Close closes the handle.
func (p *Provider) Close() error {
	return p.db.Close()
}

// notFound maps sql.ErrNoRows onto persistence.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}
	return err
}

// expectOne checks that exactly one row was affected.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
