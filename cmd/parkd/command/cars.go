// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/parkinglot/pkg/adapter/view/lotview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "List the parked cars",
	Long: `List the parked cars in the order of their arrival, as reported
by the parkd server.`,
	Args: cobra.NoArgs,
	RunE: listCars,
}

var carsViper *viper.Viper

func listCars(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := loadClientConfig(carsViper)
	if err != nil {
		return err
	}
	cl, err := c.Client.NewCarsClient()
	if err != nil {
		return fmt.Errorf("creating cars client: %w", err)
	}
	cars, err := cl.List(ctx)
	if err != nil {
		return fmt.Errorf("listing cars: %w", err)
	}
	r := lotview.New(cmd.OutOrStdout(), time.Local)
	if err = r.RenderCars(cars); err != nil {
		return fmt.Errorf("rendering cars: %w", err)
	}
	return nil
}

func init() {
	carsViper = clientCommand(carsCmd)
	rootCmd.AddCommand(carsCmd)
}
