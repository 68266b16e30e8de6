package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/macropad/internal/edge"
	"github.com/mj1618/macropad/internal/linuxinput"
	"github.com/mj1618/macropad/internal/output"
	"github.com/spf13/cobra"
)

// addPadFlags registers the flags that describe the button lines.
func addPadFlags(cmd *cobra.Command) {
	cmd.Flags().String("device", "", "Input event device carrying the pad buttons, e.g. /dev/input/event5")
	cmd.Flags().StringArray("map", nil, "Key code to button binding CODE=ID, e.g. KEY_KP7=7 (repeatable)")
	cmd.Flags().Duration("interval", edge.DefaultInterval, "Button sampling interval")
	cmd.Flags().Bool("list-devices", false, "List input devices with key events and exit")
}

// listDevices prints the input devices when --list-devices is set.
func listDevices(cmd *cobra.Command) (bool, error) {
	if list, _ := cmd.Flags().GetBool("list-devices"); !list {
		return false, nil
	}
	devices, err := linuxinput.ListDevices()
	if err != nil {
		return true, err
	}
	return true, output.Print(devices)
}

// runPad samples the mapped buttons and hands every edge to handle until ctx
// is done or the device fails.
func runPad(ctx context.Context, cmd *cobra.Command, handle edge.Handler) error {
	path, _ := cmd.Flags().GetString("device")
	specs, _ := cmd.Flags().GetStringArray("map")
	if path == "" || len(specs) == 0 {
		return fmt.Errorf("--device and at least one --map are required")
	}
	mapping, err := linuxinput.ParseMapping(specs)
	if err != nil {
		return err
	}
	dev, err := linuxinput.Open(path, mapping, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	readErr := make(chan error, 1)
	go func() {
		err := dev.Run(ctx)
		cancel()
		readErr <- err
	}()

	interval, _ := cmd.Flags().GetDuration("interval")
	poller := &edge.Poller{
		Detector: edge.New(mapping.Buttons(), edge.ActiveHigh),
		Source:   dev.Levels(),
		Handler:  handle,
		Interval: interval,
		Logger:   logger,
	}
	logger.Info("reading buttons", "device", path, "buttons", len(mapping.Buttons()))
	_ = poller.Run(ctx)
	return <-readErr
}
