package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the LED HTTP API",
	Long: `Serve the HTTP API and control page. LEDs start off and stay under
API control until the process is stopped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		c, backend, err := openController()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer c.Close()

		if err := c.StartServer(ctx, cfg.Addr); err != nil {
			return err
		}
		logger.Info("ledpin server finished")
		return nil
	},
}

func init() {
	serverCmd.Flags().String("addr", "", "listen address (default from config, 0.0.0.0:8080)")
	rootCmd.AddCommand(serverCmd)
}
