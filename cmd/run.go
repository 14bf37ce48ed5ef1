/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Seann-Moser/ledpin/pkg/io"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive LEDs from a button, protocol lines and the HTTP API",
	Long: `Run the full controller. When a button line is configured, a short
press toggles button_led and a press longer than two seconds turns it off
(chip backend only). With --stdin, LED_<NAME>:<0|1|T|?> lines read from
standard input are applied and answered on standard output, so a serial
device can be attached with e.g. "ledpin run --stdin < /dev/ttyUSB0".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, backend, err := openController()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer c.Close()

		var button *io.Button
		if cfg.Button > 0 {
			chip, ok := backend.(*io.IO)
			if !ok {
				return fmt.Errorf("button needs the %s backend, have %s", io.BackendChip, cfg.Backend)
			}
			if button, err = chip.WatchButton(cfg.Button); err != nil {
				return err
			}
			logger.Info("watching button", "line", cfg.Button, "led", cfg.ButtonLED)
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		serveDone := make(chan struct{})
		if useStdin, _ := cmd.Flags().GetBool("stdin"); useStdin {
			go func() {
				defer close(serveDone)
				if err := c.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
					logger.Warn("line reader stopped", "error", err)
				}
			}()
		} else {
			close(serveDone)
		}
		errc := make(chan error, 1)
		go func() {
			errc <- c.StartServer(ctx, cfg.Addr)
			cancel()
		}()
		c.Run(ctx, button)
		cancel()
		<-serveDone
		if err := <-errc; err != nil {
			return err
		}
		fmt.Println("ledpin command finished")
		return nil
	},
}

func init() {
	runCmd.Flags().String("addr", "", "listen address (default from config, 0.0.0.0:8080)")
	runCmd.Flags().Int("button", 0, "gpio line of the push button, 0 to disable")
	runCmd.Flags().String("button-led", "", "led toggled by the button")
	runCmd.Flags().Bool("stdin", false, "apply LED_<NAME>:<VALUE> lines from stdin")
	rootCmd.AddCommand(runCmd)
}
