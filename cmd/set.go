package cmd

import (
	"fmt"
	"time"

	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <led> <on|off|toggle>",
	Short: "Switch one LED and exit",
	Long: `Switch one LED and exit. Every LED is configured and driven off when
the process starts, so toggle from a fresh start turns the LED on. The
level is held for --hold before the backend is released.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := command.ParseAction(args[1])
		if err != nil {
			return err
		}
		hold, _ := cmd.Flags().GetDuration("hold")

		c, backend, err := openController()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer c.Close()

		st, err := c.Set(args[0], a)
		if err != nil {
			return err
		}
		fmt.Println(st.Command())
		time.Sleep(hold)
		return nil
	},
}

var blinkCmd = &cobra.Command{
	Use:   "blink <led>",
	Short: "Toggle one LED a number of times",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		interval, _ := cmd.Flags().GetDuration("interval")
		if err := checkBlink(count, interval); err != nil {
			return err
		}

		c, backend, err := openController()
		if err != nil {
			return err
		}
		defer backend.Close()
		defer c.Close()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; i < count*2; i++ {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-ticker.C:
			}
			st, err := c.Set(args[0], command.Toggle)
			if err != nil {
				return err
			}
			logger.Debug("toggled", "led", st.Name, "state", st.State)
		}
		return nil
	},
}

func checkBlink(count int, interval time.Duration) error {
	if count < 0 {
		return fmt.Errorf("--count must not be negative, got %d", count)
	}
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}
	return nil
}

func init() {
	setCmd.Flags().Duration("hold", 0, "keep the process and level alive this long before exiting")
	blinkCmd.Flags().Int("count", 5, "number of on/off cycles")
	blinkCmd.Flags().Duration("interval", 500*time.Millisecond, "time between toggles")
	rootCmd.AddCommand(setCmd, blinkCmd)
}
