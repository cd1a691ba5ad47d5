// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema is an internal helper for the test packages which
// verifies the parking lot database schema. Verification inserts and
// queries temporary records in a transaction which is rolled back at
// the end, so the schema contents are left intact.
package schema

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/stretchr/testify/assert"
)

var errRollback = errors.New("rolling back the verification tx")

// Verifier wraps a database connection in order to verify the schema.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection. Since Verifier fields are not exported, the New function
// is required for its initialization.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema ensures that the cars table exists in the `schema`
// schema with its expected columns, that plates are unique, and that
// the seq column keeps the insertion order.
// This process failures are reported using the `t` testing argument.
func (v *Verifier) VerifySchema(
	ctx context.Context, t *testing.T, schema string,
) {
	table := fmt.Sprintf("%q.cars", schema)
	err := v.c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		ins := "INSERT INTO " + table +
			" (cid, plate, parked_at) VALUES ($1, $2, now())"
		for _, p := range []string{"VERIFY-1", "VERIFY-2"} {
			n, err := tx.Exec(ctx, ins, uuid.New(), p)
			if !assert.NoError(t, err, "inserting %q", p) {
				return errRollback
			}
			assert.Equal(t, int64(1), n)
		}
		rows, err := tx.Query(
			ctx, "SELECT plate FROM "+table+" ORDER BY seq",
		)
		if !assert.NoError(t, err) {
			return errRollback
		}
		var plates []string
		for rows.Next() {
			var p string
			assert.NoError(t, rows.Scan(&p))
			plates = append(plates, p)
		}
		assert.NoError(t, rows.Err())
		rows.Close()
		assert.Equal(t, []string{"VERIFY-1", "VERIFY-2"}, plates)
		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	err = v.c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
		ins := "INSERT INTO " + table +
			" (cid, plate, parked_at) VALUES ($1, 'DUP', now())"
		if _, err := tx.Exec(ctx, ins, uuid.New()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, ins, uuid.New())
		return err
	})
	assert.Error(t, err, "duplicate plates must be rejected")
}
