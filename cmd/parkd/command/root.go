// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the parkd
// executable. Supported commands are:
//
//	./parkd [-c /path/of/config.yaml] [--verbose]   # start web server
//	./parkd db init [-c /path/of/config.yaml]
//	./parkd add [--api-url URL] PLATE...
//	./parkd cars [--api-url URL]
//
// A .env file in the working directory is loaded (if present) before
// the flags are processed, so CONFIG_FILE and PARKD_API_URL may be
// kept there.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/momeni/parkinglot/pkg/adapter/config"
	"github.com/momeni/parkinglot/pkg/adapter/metrics"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin"
	"github.com/momeni/parkinglot/pkg/adapter/restful/gin/routes"
	"github.com/momeni/parkinglot/pkg/core/log"
	"github.com/momeni/parkinglot/pkg/core/repo"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "parkd",
	Short: "A parking lot REST server and its command line client",
	Long: `A parking lot REST server and its command line client.
Without a sub-command, parkd serves the cars REST APIs under the
/api/parking/v1 prefix using the PostgreSQL database which is given
in the configuration file. The database may be prepared with the
"db init" sub-command beforehand.
The "add" and "cars" sub-commands talk to a running server, so cars
may be parked and listed from the terminal.`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogger,
	RunE:              startWebServer,
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.NormalRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	var e *gin.Engine = c.Gin.NewEngine()
	m := metrics.New()
	if err = routes.Register(e, p, c, m); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	srv := &http.Server{
		Addr:              c.Gin.Address,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info(ctx, "serving REST APIs", slog.String("address", srv.Addr))
	select {
	case err = <-errCh:
		return fmt.Errorf("serving %q: %w", srv.Addr, err)
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	if err = srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down the server: %w", err)
	}
	return nil
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	log.Setup(cmd.ErrOrStderr(), verbose)
	return nil
}

// Execute runs the root command, hence, parses the command line
// arguments and runs the relevant sub-command. It exits with a
// non-zero status code if the command fails.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv, fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.PersistentFlags().BoolVar(
		&verbose, "verbose", false, "log debug messages too",
	)
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env file: %v\n", err)
	}
}

func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
