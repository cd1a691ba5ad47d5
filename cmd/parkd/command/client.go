// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/momeni/parkinglot/pkg/adapter/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// apiURLEnv is the environment variable which may override the
// client.api-url setting of the config file.
const apiURLEnv = "PARKD_API_URL"

// clientCommand registers the --api-url flag for cmd and returns a
// viper instance which resolves it with this precedence: the flag,
// the PARKD_API_URL environment variable, and then the config file.
// Each command needs its own instance because a global viper keeps
// only the last bound flag for each key.
func clientCommand(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	cmd.Flags().String("api-url", "", "base URL of the parkd server")
	if err := v.BindPFlag("api-url", cmd.Flags().Lookup("api-url")); err != nil {
		panic(err)
	}
	if err := v.BindEnv("api-url", apiURLEnv); err != nil {
		panic(err)
	}
	return v
}

// loadClientConfig loads the config file, if present, and applies the
// api-url override from v. A missing config file is not an error for
// the client commands, since all client settings have defaults.
func loadClientConfig(v *viper.Viper) (*config.Config, error) {
	c, err := config.Load(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		c, err = config.Parse(nil)
		if err != nil {
			return nil, fmt.Errorf("config.Parse(nil): %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if u := v.GetString("api-url"); u != "" {
		c.Client.APIURL = u
	}
	return c, nil
}
