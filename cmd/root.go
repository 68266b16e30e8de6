package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/macropad/internal/config"
	"github.com/mj1618/macropad/internal/output"
	"github.com/mj1618/macropad/internal/version"
	"github.com/spf13/cobra"
)

var (
	// settings is loaded before every command runs.
	settings = config.Default()
	logger   = slog.Default()
	logLevel = levelFlag{level: slog.LevelInfo}
)

var rootCmd = &cobra.Command{
	Use:   "macropad",
	Short: "Turn macro pad buttons into keyboard and mouse macros",
	Long: `macropad maps the buttons of a small USB macro pad to keystrokes, key
combinations, typed text, mouse moves, clicks, scrolls and delays.

The pad either runs macros itself through a relative-only virtual input
device (local), or reports button edges over its serial line (send) to a
host that injects input through the operating system (relay).`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json (default: json when piped, yaml otherwise)")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().Var(&logLevel, "log-level", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("config", "", "Settings file (default: macropad/config.yaml in the user config dir)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		explicit := path != ""
		if !explicit {
			if path, err = config.DefaultPath(); err != nil {
				path = ""
			}
		}
		if path != "" {
			cfg, err := config.Load(path, explicit)
			if err != nil {
				return err
			}
			settings = cfg
		}

		if !rootCmd.PersistentFlags().Changed("log-level") {
			if err := logLevel.Set(settings.LogLevel); err != nil {
				return fmt.Errorf("settings: %w", err)
			}
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel.level}))
		slog.SetDefault(logger)
		return nil
	}
}
