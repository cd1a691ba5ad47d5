// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/parkinglot/pkg/adapter/config"
	"github.com/momeni/parkinglot/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/parkinglot/pkg/adapter/metrics"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/parkinglot/pkg/core/repo"
)

// APIPrefix is the path prefix of all parking lot REST APIs.
const APIPrefix = "/api/parking/v1"

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like carsuc and each repository package is named like carsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like carsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// If m is not nil, the resources count their requests with it and
// if the metrics are enabled in c, it is served at the /metrics path.
// Possible errors will be returned after possible wrapping.
func Register(
	e *gin.Engine, p repo.Pool, c *config.Config, m *metrics.Metrics,
) error {
	return RegisterWithRepo(e, p, carsrp.New(), c, m)
}

// RegisterWithRepo is like Register, but takes the cars repository
// instead of instantiating one for PostgreSQL. The given carsRepo
// must be able to unwrap connections of the p pool.
func RegisterWithRepo(
	e *gin.Engine,
	p repo.Pool,
	carsRepo repo.Cars,
	c *config.Config,
	m *metrics.Metrics,
) error {
	carsUseCase, err := c.NewCarsUseCase(p, carsRepo)
	if err != nil {
		return fmt.Errorf("creating cars use case: %w", err)
	}
	r := e.Group(APIPrefix)
	carsrs.Register(r, carsUseCase, m)
	if m != nil && *c.Gin.Metrics {
		e.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return nil
}
