// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Schema interface presents expectations from a repository which allows
// database schema and roles management. It is used by an administrator
// role in order to prepare a database for the normal role which is used
// by the parkd web server.
type Schema interface {
	// Tx takes a Tx interface instance, unwraps it as required,
	// and returns a SchemaTxQueryer interface.
	Tx(Tx) SchemaTxQueryer
}

// SchemaTxQueryer contains the schema management queries. All of them
// must run in one transaction, so a half-initialized database never
// becomes visible.
type SchemaTxQueryer interface {
	// CreateRoleIfNotExists creates the role (with login option) if it
	// does not exist. No password is set by this method.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// ChangePassword sets the password of role. The hashedPass must be
	// already hashed (e.g., in the SCRAM format), so the plaintext
	// password is never sent in a DDL statement.
	ChangePassword(ctx context.Context, role Role, hashedPass string) error

	// CreateSchemaIfNotExists creates the schema if it is missing.
	CreateSchemaIfNotExists(ctx context.Context, schema string) error

	// GrantPrivileges grants usage and create privileges on schema
	// and all privileges on its tables and sequences to role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath sets the default search_path of role to schema.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// CreateCarsTable creates the cars table in schema if it is
	// missing.
	CreateCarsTable(ctx context.Context, schema string) error
}
