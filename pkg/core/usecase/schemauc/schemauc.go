// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemauc provides the database initialization use case.
// It prepares an empty PostgreSQL database for the parkd web server
// by creating its unprivileged role, its schema, and the cars table
// using an administrator role. The Settings interface represents the
// expectations from the configuration adapter, so this use case may
// find the connection information and manage the pass files without
// depending on a specific configuration format.
package schemauc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/momeni/parkinglot/pkg/core/scram"
)

// DefaultIterations is the number of PBKDF2 iterations which are used
// for hashing the normal role password. It follows the RFC 7677
// recommendation.
const DefaultIterations = 15000

// Settings interface specifies the configuration settings which are
// required by the database initialization use case.
type Settings interface {
	// ConnectionPool creates a database connection pool for the r role.
	ConnectionPool(ctx context.Context, r repo.Role) (repo.Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	NewSchemaRepo() repo.Schema

	// Hasher returns the SCRAM hasher which matches the password
	// encryption method of the target database.
	Hasher() scram.Hasher

	// SchemaName returns the database schema which should hold the
	// parking lot tables.
	SchemaName() string

	// RenewPasswords generates new passwords for roles, records them
	// in a temporary pass file, and calls change in order to update
	// them in the database. The returned finalizer moves the temporary
	// pass file over the main pass file and must be called only after
	// the change transaction is committed.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context, roles []repo.Role, passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)
}

// UseCase represents the database initialization use case.
type UseCase struct {
	settings   Settings    // target settings
	schemaRepo repo.Schema // schema management repo
}

// New instantiates a database initialization UseCase, taking its
// schema repository from the ss settings.
func New(ss Settings) *UseCase {
	return &UseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitDB connects to the database using the admin role and in one
// transaction, creates the normal role (if it is missing), sets its
// password, creates the schema and the cars table (if they are
// missing), grants privileges on them to the normal role, and sets
// the search_path of the normal role. The new password is hashed
// before being sent to the database, so a statement logger may not
// leak it. After the commitment, the new pass file is moved in place
// and a connection with the normal role is tried in order to verify
// the initialization. Running InitDB again is harmless and only
// renews the normal role password.
func (uc *UseCase) InitDB(ctx context.Context) error {
	p, err := uc.settings.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	sn := uc.settings.SchemaName()
	var finalizer func() error
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.schemaRepo.Tx(tx)
			if err := q.CreateRoleIfNotExists(
				ctx, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := q.CreateSchemaIfNotExists(ctx, sn); err != nil {
				return fmt.Errorf("creating %q: %w", sn, err)
			}
			if err := q.CreateCarsTable(ctx, sn); err != nil {
				return fmt.Errorf("creating cars table: %w", err)
			}
			if err := q.GrantPrivileges(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := q.SetSearchPath(
				ctx, sn, repo.NormalRole,
			); err != nil {
				return fmt.Errorf(
					"setting search_path of normal role to %q: %w",
					sn, err,
				)
			}
			finalizer, err = uc.settings.RenewPasswords(
				ctx,
				func(
					ctx context.Context,
					roles []repo.Role,
					passwords []string,
				) error {
					return uc.changePasswords(ctx, q, roles, passwords)
				},
				repo.NormalRole,
			)
			if err != nil {
				return fmt.Errorf("RenewPasswords: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	if err := finalizer(); err != nil {
		return fmt.Errorf("finalizing passwords renewal: %w", err)
	}
	log.Info(ctx, "database is initialized", slog.String("schema", sn))
	if err := uc.verify(ctx); err != nil {
		return fmt.Errorf("verifying normal role: %w", err)
	}
	return nil
}

func (uc *UseCase) changePasswords(
	ctx context.Context,
	q repo.SchemaTxQueryer,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"got %d roles and %d passwords", len(roles), len(passwords),
		)
	}
	h := uc.settings.Hasher()
	for i, r := range roles {
		hp, err := h.Hash(passwords[i], "", DefaultIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", r, err)
		}
		if err := q.ChangePassword(ctx, r, hp); err != nil {
			return fmt.Errorf("changing password of %q: %w", r, err)
		}
	}
	return nil
}

func (uc *UseCase) verify(ctx context.Context) error {
	p, err := uc.settings.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool for normal role: %w", err)
	}
	defer p.Close()
	return p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return nil
	})
}
