// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"github.com/momeni/parkinglot/pkg/adapter/config/settings"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin"
)

// DefaultAddress is the listening address of the web server.
const DefaultAddress = ":8080"

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them with their default values.
type Gin struct {
	Address  string `yaml:"address,omitempty"` // host:port to listen on
	Logger   *bool  // Whether to register the gin.Logger() middleware
	Recovery *bool  // Whether to register the gin.Recovery() middleware

	// CORSOrigins lists the origins which may call the REST APIs from
	// a browser. A single "*" item allows all origins. The CORS
	// middleware is not registered if it is empty.
	CORSOrigins []string `yaml:"cors-origins,omitempty"`

	// Metrics indicates whether the /metrics route should be served.
	Metrics *bool
}

func (g *Gin) normalize() {
	if g.Address == "" {
		g.Address = DefaultAddress
	}
	t := true
	settings.OverwriteNil(&g.Logger, &t)
	settings.OverwriteNil(&g.Recovery, &t)
	settings.Nil2Zero(&g.Metrics)
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The g settings must be normalized beforehand.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 3)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	if len(g.CORSOrigins) > 0 {
		middlewares = append(middlewares, gin.CORS(g.CORSOrigins))
	}
	return gin.New(middlewares...)
}
