// Package main provides the entry point for the httpsredirect service.
//
// The main package:
// - Parses flags, the optional config file and environment overrides
// - Initializes logging
// - Runs the redirect server until interrupted
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flrossetto/httpsredirect/config"
	"github.com/flrossetto/httpsredirect/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals
var version = "dev"

func newRootCmd(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "httpsredirect",
		Short:         "Redirect all incoming HTTP requests to HTTPS",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			log.SetLevel(cfg.LogLevel)

			return server.NewServer(log, cfg).Start(cmd.Context())
		},
	}

	cmd.Flags().Uint16P("port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringP("address", "a", config.DefaultAddress, "Bind address")
	cmd.Flags().String("config", "", "Path to config file (default ./"+config.DefaultConfigFile+" if present)")

	return cmd
}

// loadConfig layers defaults, config file, environment and explicitly set
// flags, in that order, and validates the result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	configPath, _ := cmd.Flags().GetString("config")
	if err := config.LoadConfig(configPath, &cfg); err != nil {
		return cfg, err
	}

	if err := config.ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetUint16("port")
	}

	if cmd.Flags().Changed("address") {
		cfg.Address, _ = cmd.Flags().GetString("address")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(log).ExecuteContext(ctx); err != nil {
		stop()
		log.WithError(err).Fatal("httpsredirect failed")
	}
}
