// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemauc_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/momeni/parkinglot/internal/test/fakerepo"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/momeni/parkinglot/pkg/core/scram"
	"github.com/momeni/parkinglot/pkg/core/usecase/schemauc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixHasher struct{}

func (prefixHasher) Hash(pass, salt string, iters int) (string, error) {
	return fmt.Sprintf("SCRAM-FAKE$%d:%s", iters, pass), nil
}

type recorder struct {
	calls   []string
	failing string
}

func (r *recorder) Tx(repo.Tx) repo.SchemaTxQueryer {
	return r
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failing {
		return errors.New("boom")
	}
	return nil
}

func (r *recorder) CreateRoleIfNotExists(_ context.Context, role repo.Role) error {
	return r.record("role " + string(role))
}

func (r *recorder) ChangePassword(_ context.Context, role repo.Role, hp string) error {
	return r.record("pass " + string(role) + " " + hp)
}

func (r *recorder) CreateSchemaIfNotExists(_ context.Context, s string) error {
	return r.record("schema " + s)
}

func (r *recorder) GrantPrivileges(_ context.Context, s string, role repo.Role) error {
	return r.record("grant " + s + " " + string(role))
}

func (r *recorder) SetSearchPath(_ context.Context, s string, role repo.Role) error {
	return r.record("search_path " + s + " " + string(role))
}

func (r *recorder) CreateCarsTable(_ context.Context, s string) error {
	return r.record("table " + s)
}

type settings struct {
	schema    *recorder
	pools     []repo.Role
	finalized bool
}

func (ss *settings) ConnectionPool(
	_ context.Context, r repo.Role,
) (repo.Pool, error) {
	ss.pools = append(ss.pools, r)
	return fakerepo.New(), nil
}

func (ss *settings) NewSchemaRepo() repo.Schema {
	return ss.schema
}

func (ss *settings) Hasher() scram.Hasher {
	return prefixHasher{}
}

func (ss *settings) SchemaName() string {
	return "parking"
}

func (ss *settings) RenewPasswords(
	ctx context.Context,
	change func(context.Context, []repo.Role, []string) error,
	roles ...repo.Role,
) (func() error, error) {
	passwords := make([]string, len(roles))
	for i := range roles {
		passwords[i] = fmt.Sprintf("secret%d", i)
	}
	if err := change(ctx, roles, passwords); err != nil {
		return nil, err
	}
	return func() error {
		ss.finalized = true
		return nil
	}, nil
}

func TestInitDB(t *testing.T) {
	ss := &settings{schema: &recorder{}}
	uc := schemauc.New(ss)
	require.NoError(t, uc.InitDB(context.Background()))

	assert.Equal(t, []string{
		"role parkd",
		"schema parking",
		"table parking",
		"grant parking parkd",
		"search_path parking parkd",
		"pass parkd SCRAM-FAKE$15000:secret0",
	}, ss.schema.calls)
	assert.True(t, ss.finalized)
	assert.Equal(t, []repo.Role{repo.AdminRole, repo.NormalRole}, ss.pools)
}

func TestInitDBFailureKeepsOldPassFile(t *testing.T) {
	ss := &settings{schema: &recorder{failing: "grant parking parkd"}}
	uc := schemauc.New(ss)
	err := uc.InitDB(context.Background())
	assert.ErrorContains(t, err, "granting normal role privs")
	assert.False(t, ss.finalized)
	assert.Equal(t, []repo.Role{repo.AdminRole}, ss.pools)
	assert.NotContains(t, ss.schema.calls, "pass parkd SCRAM-FAKE$15000:secret0")
}
