package cmd

import (
	"github.com/mj1618/macropad/internal/output"
	"github.com/mj1618/macropad/internal/serialport"
	"github.com/spf13/cobra"
)

// portEntry is one row of `ports` output.
type portEntry struct {
	serialport.PortInfo `yaml:",inline"`
	Match               bool `yaml:"match" json:"match"`
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports and show which one auto-detection would pick",
	RunE:  runPorts,
}

func init() {
	rootCmd.AddCommand(portsCmd)
	portsCmd.Flags().StringSlice("match", nil, "Port description keywords for auto-detection")
}

func runPorts(cmd *cobra.Command, args []string) error {
	ports, err := serialport.List()
	if err != nil {
		return err
	}
	return output.Print(portEntries(ports, stringSliceSetting(cmd, "match", settings.Match)))
}

func portEntries(ports []serialport.PortInfo, keywords []string) []portEntry {
	match, ok := serialport.Match(ports, keywords)
	entries := make([]portEntry, 0, len(ports))
	for _, p := range ports {
		entries = append(entries, portEntry{PortInfo: p, Match: ok && p.Name == match.Name})
	}
	return entries
}
