// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the parkd to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory items)
// and a series of functional options (for the optional items), so they
// may be validated again in the relevant end-component such as a
// UseCase instance.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/momeni/parkinglot/pkg/core/scram"
	"github.com/momeni/parkinglot/pkg/core/usecase/carsuc"
	"github.com/momeni/parkinglot/pkg/core/usecase/schemauc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Usecases Usecases // Configuration settings for supported use cases
	Client   Client   // REST client settings for the add/cars commands
}

var _ schemauc.Settings = (*Config)(nil)

// Load function reads the configuration file from path and passes its
// contents to the Parse function.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable.
// An empty data is acceptable and results in the default settings.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	switch l := len(n.Content); l {
	case 0:
	case 1:
		if err := n.Decode(c); err != nil {
			return nil, fmt.Errorf("decoding yaml node: %w", err)
		}
	default:
		return nil, fmt.Errorf(
			"found %d children nodes, instead of 1 mapping child", l,
		)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.normalize()
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating usecases settings: %w", err)
	}
	if err := c.Client.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating client settings: %w", err)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"%s@%s:%d/%s: %w",
			r, c.Database.Host, c.Database.Port, c.Database.Name, err,
		)
	}
	return p, nil
}

// NewSchemaRepo instantiates a fresh Schema repository.
func (c *Config) NewSchemaRepo() repo.Schema {
	return c.Database.NewSchemaRepo()
}

// Hasher returns the SCRAM hasher which matches the configured
// database authentication method.
func (c *Config) Hasher() scram.Hasher {
	return c.Database.hasher
}

// SchemaName returns the database schema which holds the cars table.
func (c *Config) SchemaName() string {
	return c.Database.Schema
}

// RenewPasswords generates new secure passwords for the given roles.
// See Database.RenewPasswords for details.
func (c *Config) RenewPasswords(
	ctx context.Context,
	change func(
		ctx context.Context, roles []repo.Role, passwords []string,
	) error,
	roles ...repo.Role,
) (finalizer func() error, err error) {
	return c.Database.RenewPasswords(ctx, change, roles...)
}

// NewCarsUseCase instantiates a new cars use case based on the settings
// in the c struct.
func (c *Config) NewCarsUseCase(
	p repo.Pool, r repo.Cars,
) (*carsuc.UseCase, error) {
	return c.Usecases.Cars.NewUseCase(p, r)
}
