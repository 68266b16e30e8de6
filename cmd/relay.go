package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/output"
	"github.com/mj1618/macropad/internal/relay"
	"github.com/mj1618/macropad/internal/serialport"
	"github.com/spf13/cobra"
)

const reconnectPause = time.Second

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Execute macros for button events received over the serial line",
	Long: `Run the host service: read BUTTON_PRESSED:<id> and BUTTON_RELEASED:<id>
lines from the macro pad's serial port and execute the mapped macros through
OS-level input injection.

Without --port the first port whose description contains one of the --match
keywords is used. If none matches, the available ports are printed and the
command fails.

Examples:
  macropad relay
  macropad relay --port /dev/ttyACM0 --profile profiles/pc_profile.json
  macropad relay --reconnect --queue-size 128
  macropad relay --backend dryrun --listen-for 30s`,
	RunE: runRelay,
}

func init() {
	rootCmd.AddCommand(relayCmd)
	addProfileFlags(relayCmd, "auto")
	relayCmd.Flags().String("port", "", "Serial port (auto-detected if omitted)")
	relayCmd.Flags().StringSlice("match", nil, "Port description keywords for auto-detection")
	relayCmd.Flags().Int("baud", serialport.DefaultBaud, "Serial baud rate")
	relayCmd.Flags().Int("queue-size", relay.DefaultQueueSize, "Queued events per button")
	relayCmd.Flags().Duration("action-pause", 50*time.Millisecond, "Pause after every action")
	relayCmd.Flags().Duration("listen-for", 0, "Stop after this long (0 = until interrupted)")
	relayCmd.Flags().Bool("reconnect", false, "Reopen the port when the link fails")
}

func runRelay(cmd *cobra.Command, args []string) error {
	res, _, err := loadProfile(cmd)
	if err != nil {
		return err
	}

	pause := time.Duration(settings.ActionPauseMs) * time.Millisecond
	if cmd.Flags().Changed("action-pause") {
		pause, _ = cmd.Flags().GetDuration("action-pause")
	}
	eng, err := newEngine(cmd, res, settings.Backend, executor.WithActionPause(pause))
	if err != nil {
		return err
	}
	defer eng.Close()

	listenFor, _ := cmd.Flags().GetDuration("listen-for")
	reconnect, _ := cmd.Flags().GetBool("reconnect")
	cfg := relay.Config{
		QueueSize: intSetting(cmd, "queue-size", settings.QueueSize),
		ListenFor: listenFor,
		Logger:    logger,
	}

	ctx, stop := signalContext()
	defer stop()

	for {
		name, err := resolvePort(cmd)
		if err != nil {
			return err
		}
		port, err := serialport.Open(name, intSetting(cmd, "baud", settings.Baud), 0)
		if err != nil {
			if !reconnect {
				return err
			}
			logger.Warn("failed to open serial port", "port", name, "err", err)
		} else {
			logger.Info("connected to macro pad", "port", name)
			stats, serveErr := relaySession(ctx, port, eng.exec, cfg)
			_ = port.Close()
			logger.Info("relay session ended", "port", name, "events", stats.Events, "buttons", stats.Buttons)
			if serveErr == nil {
				return nil
			}
			if !reconnect {
				return serveErr
			}
			logger.Warn("serial link lost", "port", name, "err", serveErr)
		}
		if !sleepCtx(ctx, reconnectPause) {
			return nil
		}
	}
}

// relaySession serves one connection and then releases the keys of buttons
// whose release edge never arrived.
func relaySession(ctx context.Context, r io.Reader, exec *executor.Executor, cfg relay.Config) (relay.Stats, error) {
	stats, err := relay.Serve(ctx, r, exec.Handle, cfg)
	exec.ReleaseAll()
	return stats, err
}

// resolvePort returns --port or the settings port, falling back to
// discovery. With no match the available ports are printed.
func resolvePort(cmd *cobra.Command) (string, error) {
	if name := stringSetting(cmd, "port", settings.Port); name != "" {
		return name, nil
	}
	keywords := stringSliceSetting(cmd, "match", settings.Match)
	p, ports, err := serialport.Discover(keywords)
	if err != nil {
		if errors.Is(err, serialport.ErrNoMatch) {
			if printErr := output.Print(portEntries(ports, keywords)); printErr != nil {
				return "", printErr
			}
			return "", fmt.Errorf("could not find the macro pad automatically (use --port): %w", err)
		}
		return "", err
	}
	logger.Info("found macro pad port", "port", p.Name, "description", p.Description)
	return p.Name, nil
}
