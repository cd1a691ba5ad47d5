// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/momeni/parkinglot/pkg/adapter/view/lotview"
	"github.com/momeni/parkinglot/pkg/core/usecase/storeuc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var addCmd = &cobra.Command{
	Use:   "add PLATE...",
	Short: "Park cars by their license plates",
	Long: `Park cars by their license plates.
Plates are sent to the parkd server one after another, in the given
order, and each change of the parking lot state is printed: the cars
which are parked so far, whether a request is in progress, and the
error message of the last failed request.
The command fails if the last request has failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: addCars,
}

var addViper *viper.Viper

func addCars(cmd *cobra.Command, plates []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	c, err := loadClientConfig(addViper)
	if err != nil {
		return err
	}
	cl, err := c.Client.NewCarsClient()
	if err != nil {
		return fmt.Errorf("creating cars client: %w", err)
	}
	s, err := c.Usecases.Store.NewStore(cl)
	if err != nil {
		return fmt.Errorf("creating state store: %w", err)
	}
	defer s.Close()
	return parkAll(ctx, s, cmd.OutOrStdout(), plates)
}

// parkAll adds plates through the s store, rendering every view model
// on w, and waits for all of them to be processed. The s store is
// closed before parkAll returns. If rendering fails, the subscription
// is detached, so the store keeps adding the remaining plates.
func parkAll(
	ctx context.Context, s *storeuc.Store, w io.Writer, plates []string,
) error {
	sub := s.Subscribe()
	r := lotview.New(w, time.Local)
	rendered := make(chan error, 1)
	go func() {
		defer sub.Close()
		rendered <- r.Follow(ctx, sub.C)
	}()
	for _, plate := range plates {
		s.AddCar(plate)
	}
	waitErr := s.Wait(ctx)
	s.Close()
	if err := <-rendered; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("rendering parking lot: %w", err)
	}
	if waitErr != nil {
		return fmt.Errorf("waiting for pending requests: %w", waitErr)
	}
	if msg, failed := s.ErrorMessage(); failed {
		return fmt.Errorf("adding car: %s", msg)
	}
	return nil
}

func init() {
	addViper = clientCommand(addCmd)
	rootCmd.AddCommand(addCmd)
}
