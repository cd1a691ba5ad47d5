// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/parkinglot/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool. It implements the
// repo.Pool interface and may be closed after use.
type Pool struct {
	*gorm.DB
}

// NewPool instantiates a connection pool for the given PostgreSQL url
// and tests it by acquiring one connection. Slow queries and errors
// are logged by the default slog logger at the warning level.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	gl := slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn)
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(gl, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			// Set to false in order to log with replaced vars
			ParameterizedQueries: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

// ConnHandler is an alias for the repo.ConnHandler type.
type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing. It is useful
// for testing the connectivity of a pool.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a dedicated connection from p pool and passes it to
// the f handler. The connection is released when f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of the p pool.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	return db.Close()
}
