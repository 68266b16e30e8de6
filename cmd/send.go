package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/relay"
	"github.com/mj1618/macropad/internal/serialport"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Report pad button edges on a serial line",
	Long: `Run the serial firmware loop: sample the pad buttons from a Linux input
device and write BUTTON_PRESSED:<id> / BUTTON_RELEASED:<id> lines to a serial
port for a host running "macropad relay". Use --port - to write to stdout.

Examples:
  macropad send --device /dev/input/event5 --map KEY_KP7=7 --port /dev/ttyGS0
  macropad send --device /dev/input/event5 --map KEY_KP7=7 --port -`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addPadFlags(sendCmd)
	sendCmd.Flags().String("port", "", "Serial port to write to, or - for stdout")
	sendCmd.Flags().Int("baud", serialport.DefaultBaud, "Serial baud rate")
}

func runSend(cmd *cobra.Command, args []string) error {
	if listed, err := listDevices(cmd); listed || err != nil {
		return err
	}

	name := stringSetting(cmd, "port", settings.Port)
	if name == "" {
		return fmt.Errorf("--port is required")
	}
	var w io.Writer = os.Stdout
	if name != "-" {
		port, err := serialport.Open(name, intSetting(cmd, "baud", settings.Baud), 0)
		if err != nil {
			return err
		}
		defer port.Close()
		w = port
	}

	sender := relay.NewSender(w)
	ctx, stop := signalContext()
	defer stop()
	return runPad(ctx, cmd, func(ev model.ButtonEvent) {
		if err := sender.Send(ev); err != nil {
			logger.Error("failed to send button event", "button", int(ev.Button), "edge", ev.Edge.String(), "err", err)
			return
		}
		logger.Debug("sent button event", "button", int(ev.Button), "edge", ev.Edge.String())
	})
}
