// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp provides a reification of the repo.Schema interface
// making it possible to create the parking lot schema and its tables,
// or manage database user roles. All schema and role names are quoted
// as SQL identifiers, but callers should still pass trusted names.
package schemarp

import (
	"context"

	"github.com/momeni/parkinglot/pkg/adapter/db/postgres"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// Repo represents a schema management repository.
type Repo struct {
	roleSuffix repo.Role
}

// New instantiates a schema management Repo struct. The roleSuffix is
// appended to all role names, so multiple deployments may share one
// PostgreSQL cluster. It may be empty.
func New(roleSuffix repo.Role) *Repo {
	return &Repo{roleSuffix: roleSuffix}
}

type txQueryer struct {
	*postgres.Tx
	roleSuffix repo.Role
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by the postgres adapter. Otherwise, it
// will panic. Unwrapped transaction will be wrapped and returned as an
// instance of repo.SchemaTxQueryer interface, so it can be used in
// the use cases layer without requiring to type assert again and again.
//
// Schema management queries are only supported in a transaction, so
// the normal role may never observe a half-initialized database.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt, roleSuffix: schema.roleSuffix}
}

func (tq txQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.roleSuffix, role)
}

func (tq txQueryer) ChangePassword(
	ctx context.Context, role repo.Role, hashedPass string,
) error {
	return ChangePassword(ctx, tq.Tx, tq.roleSuffix, role, hashedPass)
}

func (tq txQueryer) CreateSchemaIfNotExists(
	ctx context.Context, schema string,
) error {
	return CreateSchemaIfNotExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	return GrantPrivileges(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	return SetSearchPath(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) CreateCarsTable(
	ctx context.Context, schema string,
) error {
	return CreateCarsTable(ctx, tq.Tx, schema)
}
