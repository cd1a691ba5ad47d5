// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config

import (
	"errors"
	"time"

	"github.com/momeni/parkinglot/pkg/adapter/config/settings"
	"github.com/momeni/parkinglot/pkg/adapter/restful/client/carscl"
)

// These constants are the default client settings.
const (
	DefaultAPIURL        = "http://127.0.0.1:8080"
	DefaultClientTimeout = 30 * time.Second
)

// Client contains the REST client settings which are used by the add
// and cars commands in order to reach a parkd server.
type Client struct {
	APIURL  string             `yaml:"api-url,omitempty"`
	Timeout *settings.Duration `yaml:"timeout,omitempty"`
}

// ValidateAndNormalize fills the missing client settings with their
// default values.
func (c *Client) ValidateAndNormalize() error {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	d := settings.Duration(DefaultClientTimeout)
	settings.OverwriteNil(&c.Timeout, &d)
	if *c.Timeout <= 0 {
		return errors.New("timeout is not positive")
	}
	return nil
}

// NewCarsClient instantiates a cars REST client based on the settings
// in the `c` struct.
func (c Client) NewCarsClient() (*carscl.Client, error) {
	return carscl.New(
		c.APIURL, carscl.WithTimeout(time.Duration(*c.Timeout)),
	)
}
