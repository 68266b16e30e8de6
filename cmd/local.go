package cmd

import (
	"github.com/spf13/cobra"
)

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Run macros directly from pad buttons on a virtual input device",
	Long: `Run the firmware loop on this machine: sample the pad buttons from a Linux
input device, detect press and release edges, and execute the mapped macros
through a relative-only virtual keyboard and mouse (uinput). Absolute mouse
moves are emulated from a corner reset.

Examples:
  macropad local --list-devices
  macropad local --device /dev/input/event5 --map KEY_KP7=7 --map KEY_KP9=9 --profile pad.txt`,
	RunE: runLocal,
}

func init() {
	rootCmd.AddCommand(localCmd)
	addProfileFlags(localCmd, "uinput")
	addPadFlags(localCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	if listed, err := listDevices(cmd); listed || err != nil {
		return err
	}

	res, _, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd, res, "uinput")
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signalContext()
	defer stop()
	return runPad(ctx, cmd, eng.exec.Handle)
}
