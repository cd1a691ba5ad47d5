// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/parkinglot/pkg/adapter/config"
	"github.com/momeni/parkinglot/pkg/core/usecase/schemauc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command may be used.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database role, schema, and cars table",
	Long: `Create the database role, schema, and cars table.
The database connection information are read from the config file and
the admin role password is read from the .pgpass file in the pass-dir
folder. A fresh random password is generated for the normal role and
only its SCRAM hash is sent to the DBMS. The new password is written
to the .pgpass.new file first and is moved to the .pgpass file after
the database transaction is committed.
Running this command again keeps the existing schema and table and
only renews the normal role password.`,
	Args: cobra.NoArgs,
	RunE: initDB,
}

func initDB(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = schemauc.New(c).InitDB(ctx); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
}
