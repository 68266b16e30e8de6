package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mj1618/macropad/internal/output"
	"github.com/mj1618/macropad/internal/profile"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Validate, convert and create button profiles",
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Parse a profile and report its buttons and warnings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileValidate,
}

var profileShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a profile, optionally converted to another format",
	Long: `Print the parsed profile in the format given by --to. Dropped actions and
buttons do not appear in the output.

Examples:
  macropad profile show pad.txt --to yaml
  macropad profile show profiles/pc_profile.json --to text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfileShow,
}

var profileInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default profile template",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileInit,
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileValidateCmd, profileShowCmd, profileInitCmd)
	profileValidateCmd.Flags().Bool("strict", false, "Fail when the profile has warnings")
	profileShowCmd.Flags().String("to", "", "Output format: text, json, yaml (default: the file's format)")
	profileInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}

func profilePath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return settings.Profile
}

func runProfileValidate(cmd *cobra.Command, args []string) error {
	path := profilePath(args)
	opts, err := profileOptions()
	if err != nil {
		return err
	}
	res, err := profile.Load(path, opts)
	if err != nil {
		return err
	}
	if err := output.Print(output.NewProfileReport(path, profile.FormatForPath(path), res, false)); err != nil {
		return err
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict && len(res.Warnings) > 0 {
		return fmt.Errorf("%s: %d warning(s)", path, len(res.Warnings))
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	path := profilePath(args)
	opts, err := profileOptions()
	if err != nil {
		return err
	}
	res, err := profile.Load(path, opts)
	if err != nil {
		return err
	}
	res.LogWarnings(logger)

	f := profile.FormatForPath(path)
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		if f, err = profile.ParseFormat(to); err != nil {
			return err
		}
	}
	data, err := profile.Encode(res.Profile, f)
	if err != nil {
		return err
	}
	_, err = output.Stdout.Write(data)
	return err
}

func runProfileInit(cmd *cobra.Command, args []string) error {
	path := profilePath(args)
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := profile.WriteDefault(path); err != nil {
		return err
	}
	opts, err := profileOptions()
	if err != nil {
		return err
	}
	res, err := profile.Load(path, opts)
	if err != nil {
		return err
	}
	return output.Print(output.NewProfileReport(path, profile.FormatForPath(path), res, true))
}
