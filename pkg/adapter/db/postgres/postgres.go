// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is an adapter which reifies the repo.Pool, repo.Conn,
// and repo.Tx interfaces using the GORM framework and its pgx based
// PostgreSQL driver. Repository packages, such as carsrp, unwrap the
// Conn and Tx types of this package in order to run GORM queries.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// These constants are the SQLSTATE codes which are inspected by the
// repository packages. For the full list, read
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	UniqueViolation = "23505"
)

// HasCode reports whether err (or any error in its chain) is reported
// by the PostgreSQL server having the code SQLSTATE code.
func HasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == code
}
