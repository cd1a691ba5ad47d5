// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/momeni/parkinglot/pkg/adapter/config"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/momeni/parkinglot/pkg/core/usecase/storeuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	c, err := config.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", c.Database.Host)
	assert.Equal(t, 5432, c.Database.Port)
	assert.Equal(t, "parking", c.Database.Name)
	assert.Equal(t, "parking", c.SchemaName())
	assert.Equal(t, ".", c.Database.PassDir)
	assert.Equal(t, "scram-sha-256", c.Database.AuthMethod)
	assert.NotNil(t, c.Hasher())

	assert.Equal(t, config.DefaultAddress, c.Gin.Address)
	assert.True(t, *c.Gin.Logger)
	assert.True(t, *c.Gin.Recovery)
	assert.False(t, *c.Gin.Metrics)
	assert.Empty(t, c.Gin.CORSOrigins)

	assert.Nil(t, c.Usecases.Cars.Capacity)
	assert.Nil(t, c.Usecases.Store.CallTimeout)
	assert.Equal(
		t, storeuc.DefaultSubscriptionBuffer,
		*c.Usecases.Store.SubscriptionBuffer,
	)

	assert.Equal(t, config.DefaultAPIURL, c.Client.APIURL)
	assert.Equal(
		t, config.DefaultClientTimeout, time.Duration(*c.Client.Timeout),
	)
}

func TestLoadSampleConfig(t *testing.T) {
	c, err := config.Load("../../../configs/sample-config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "configs", c.Database.PassDir)
	assert.Equal(t, ":8080", c.Gin.Address)
	assert.Equal(t, []string{"http://localhost:4200"}, c.Gin.CORSOrigins)
	assert.True(t, *c.Gin.Metrics)
	assert.Equal(t, 100, *c.Usecases.Cars.Capacity)
	assert.Equal(
		t, 30*time.Second, time.Duration(*c.Usecases.Store.CallTimeout),
	)
	assert.Equal(t, 16, *c.Usecases.Store.SubscriptionBuffer)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCapacityIsClamped(t *testing.T) {
	cases := []struct {
		name string
		yml  string
		want int
	}{
		{
			name: "above maximum",
			yml: `usecases:
  cars:
    capacity: 500
    capacity-maximum: 100
`,
			want: 100,
		},
		{
			name: "below minimum",
			yml: `usecases:
  cars:
    capacity: 2
    capacity-minimum: 10
`,
			want: 10,
		},
		{
			name: "within range",
			yml: `usecases:
  cars:
    capacity: 20
    capacity-minimum: 10
    capacity-maximum: 30
`,
			want: 20,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := config.Parse([]byte(tc.yml))
			require.NoError(t, err)
			assert.Equal(t, tc.want, *c.Usecases.Cars.Capacity)
		})
	}
}

func TestInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"invalid capacity range": `usecases:
  cars:
    capacity-minimum: 10
    capacity-maximum: 5
`,
		"non-positive capacity": `usecases:
  cars:
    capacity: 0
`,
		"non-positive call timeout": `usecases:
  store:
    call-timeout: 0s
`,
		"non-positive subscription buffer": `usecases:
  store:
    subscription-buffer: -1
`,
		"unsupported auth method": `database:
  auth-method: md5
`,
		"invalid port": `database:
  port: 70000
`,
		"bad duration": `client:
  timeout: soon
`,
		"not a mapping": "- a\n- b\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(yml))
			assert.Error(t, err)
		})
	}
}

func TestScramSHA1AuthMethod(t *testing.T) {
	c, err := config.Parse([]byte("database:\n  auth-method: scram-sha-1\n"))
	require.NoError(t, err)
	h, err := c.Hasher().Hash("secret", "", 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-1$4096:"), h)
}

func newDatabaseConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := config.Parse([]byte("database:\n  pass-dir: " + dir + "\n"))
	require.NoError(t, err)
	return c, dir
}

func TestRenewPasswords(t *testing.T) {
	c, dir := newDatabaseConfig(t)
	adminLine := "127.0.0.1:5432:parking:admin:adminpass"
	oldLine := "127.0.0.1:5432:parking:parkd:oldpass"
	orgPath := filepath.Join(dir, ".pgpass")
	require.NoError(t, os.WriteFile(
		orgPath, []byte(adminLine+"\n"+oldLine+"\n"), 0o600,
	))

	var changed []string
	fin, err := c.RenewPasswords(
		context.Background(),
		func(_ context.Context, roles []repo.Role, passes []string) error {
			assert.Equal(t, []repo.Role{repo.NormalRole}, roles)
			changed = passes
			return nil
		},
		repo.NormalRole,
	)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.NotEmpty(t, changed[0])

	// the main file is untouched until the finalizer is called
	u, err := c.Database.ConnectionURL(repo.NormalRole, orgPath)
	require.NoError(t, err)
	assertPassword(t, u, "parkd", "oldpass")

	require.NoError(t, fin())
	_, err = os.Stat(filepath.Join(dir, ".pgpass.new"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	u, err = c.Database.ConnectionURL(repo.NormalRole, orgPath)
	require.NoError(t, err)
	assertPassword(t, u, "parkd", changed[0])
	u, err = c.Database.ConnectionURL(repo.AdminRole, orgPath)
	require.NoError(t, err)
	assertPassword(t, u, "admin", "adminpass")
}

func TestRenewPasswordsFailure(t *testing.T) {
	c, dir := newDatabaseConfig(t)
	errBoom := errors.New("boom")
	fin, err := c.RenewPasswords(
		context.Background(),
		func(context.Context, []repo.Role, []string) error {
			return errBoom
		},
		repo.NormalRole,
	)
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, fin)
	_, err = os.Stat(filepath.Join(dir, ".pgpass"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConnectionURLWithoutMatchingLine(t *testing.T) {
	c, dir := newDatabaseConfig(t)
	path := filepath.Join(dir, ".pgpass")
	require.NoError(t, os.WriteFile(
		path, []byte("# comment\nother:5432:parking:parkd:x\n"), 0o600,
	))
	_, err := c.Database.ConnectionURL(repo.NormalRole, path)
	assert.Error(t, err)
}

func assertPassword(t *testing.T, rawURL, user, pass string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "127.0.0.1:5432", u.Host)
	assert.Equal(t, "/parking", u.Path)
	assert.Equal(t, user, u.User.Username())
	p, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, pass, p)
}
