// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/parkinglot/pkg/adapter/db/postgres"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// ident quotes name as an SQL identifier.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// literal quotes s as an SQL string literal.
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CreateSchemaIfNotExists creates the `schema` schema if it does not
// exist right now.
func CreateSchemaIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	sql := "CREATE SCHEMA IF NOT EXISTS " + ident(schema)
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// CreateRoleIfNotExists creates the `role` role if it does not
// exist right now. Although the login option is enabled for the
// created role, but no specific password will be set for it.
// The ChangePassword function may be used for setting a password.
//
// The `role` role name will be suffixed by `roleSuffix`.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	r := string(role + roleSuffix)
	sql := fmt.Sprintf(`DO $$BEGIN
IF NOT EXISTS (SELECT FROM pg_catalog.pg_roles WHERE rolname = %s) THEN
	CREATE ROLE %s WITH LOGIN;
END IF;
END$$`, literal(r), ident(r))
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("creating role: %w", err)
	}
	return nil
}

// ChangePassword sets the password of the `role` role. The hashedPass
// must be in the SCRAM format, so the DBMS stores it as is and the
// plaintext password never appears in the statement.
func ChangePassword[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	role repo.Role,
	hashedPass string,
) error {
	if !strings.HasPrefix(hashedPass, "SCRAM-") {
		return fmt.Errorf("password of %q is not SCRAM hashed", role)
	}
	r := string(role + roleSuffix)
	sql := fmt.Sprintf(
		"ALTER ROLE %s WITH PASSWORD %s", ident(r), literal(hashedPass),
	)
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("altering role: %w", err)
	}
	return nil
}

// GrantPrivileges grants the usage privilege on the `schema` schema,
// the select and insert privileges on its tables, and the usage
// privilege on its sequences to the `role` role. Tables must be
// created beforehand.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	s, r := ident(schema), ident(string(role+roleSuffix))
	stmts := []string{
		fmt.Sprintf("GRANT USAGE ON SCHEMA %s TO %s", s, r),
		fmt.Sprintf(
			"GRANT SELECT, INSERT ON ALL TABLES IN SCHEMA %s TO %s",
			s, r,
		),
		fmt.Sprintf(
			"GRANT USAGE, SELECT ON ALL SEQUENCES IN SCHEMA %s TO %s",
			s, r,
		),
	}
	for _, sql := range stmts {
		if _, err := q.Exec(ctx, sql); err != nil {
			return fmt.Errorf("granting: %w", err)
		}
	}
	return nil
}

// SetSearchPath alters the given database role and sets its default
// search_path to the given schema name alone.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	sql := fmt.Sprintf(
		"ALTER ROLE %s SET search_path TO %s",
		ident(string(role+roleSuffix)), ident(schema),
	)
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("altering role: %w", err)
	}
	return nil
}

// CreateCarsTable creates the cars table in the `schema` schema if it
// does not exist. Plates are unique, and the seq column keeps the
// insertion order of cars.
func CreateCarsTable[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.cars (
	cid uuid PRIMARY KEY,
	plate text NOT NULL UNIQUE,
	parked_at timestamptz NOT NULL,
	seq bigserial NOT NULL
)`, ident(schema))
	if _, err := q.Exec(ctx, sql); err != nil {
		return fmt.Errorf("creating cars table: %w", err)
	}
	return nil
}
