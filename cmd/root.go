/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Seann-Moser/ledpin/pkg/config"
	"github.com/Seann-Moser/ledpin/pkg/controller"
	"github.com/Seann-Moser/ledpin/pkg/io"
	"github.com/Seann-Moser/ledpin/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ledpin",
	Short: "Drive LEDs wired to GPIO output pins",
	Long: `ledpin switches LEDs on GPIO output lines of a Linux single-board
computer. LEDs are named in the config file and can be driven from the
command line, a push button, the HTTP API or LED_<NAME>:<0|1|T> lines.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(path, cmd.Flags())
		if err != nil {
			return err
		}
		logger = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringP("config", "c", "ledpin.toml", "path to the TOML config file")
	f.String("backend", "", "gpio backend: "+strings.Join(io.Backends, ", "))
	f.String("chip", "", "gpio chip for the chip backend")
	f.String("i2c-bus", "", "i2c bus for the pca9685 backend")
	f.String("i2c-addr", "", "i2c address for the pca9685 backend")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (text, json)")
}

// openController opens the configured backend and builds the controller on
// it. The caller closes both.
func openController() (*controller.Controller, io.Backend, error) {
	backend, err := io.Open(io.BackendConfig{
		Name:     cfg.Backend,
		Chip:     cfg.Chip,
		Consumer: "ledpin",
		I2CBus:   cfg.I2CBus,
		I2CAddr:  cfg.I2CAddr,
	}, logging.Module(logger, "io"))
	if err != nil {
		return nil, nil, fmt.Errorf("open backend: %w", err)
	}
	c, err := controller.New(backend, cfg, logging.Module(logger, "controller"))
	if err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return c, backend, nil
}
