package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/mouse"
	"github.com/mj1618/macropad/internal/platform"
	"github.com/mj1618/macropad/internal/profile"
	"github.com/spf13/cobra"
)

// stringSetting returns the flag value when it was given on the command line
// and fallback otherwise.
func stringSetting(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intSetting(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

func stringSliceSetting(cmd *cobra.Command, name string, fallback []string) []string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetStringSlice(name)
		return v
	}
	return fallback
}

// addProfileFlags registers the flags shared by commands that execute macros.
func addProfileFlags(cmd *cobra.Command, defaultBackend string) {
	cmd.Flags().String("profile", "", "Profile file: .json, .yaml or the text grammar (default from settings)")
	cmd.Flags().String("backend", defaultBackend, "Input backend: auto, darwin, x11, uinput, dryrun")
	cmd.Flags().String("screen", "", "Screen size WxH for absolute mouse moves (default from profile or settings)")
	cmd.Flags().Bool("no-reset", false, "Skip the startup mouse reset (absolute moves then fail)")
}

func profileOptions() (profile.Options, error) {
	valid, err := settings.ValidButtons()
	if err != nil {
		return profile.Options{}, err
	}
	return profile.Options{ValidButtons: valid}, nil
}

// loadProfile loads the configured profile, writing the default template
// when the file does not exist yet.
func loadProfile(cmd *cobra.Command) (*profile.Result, string, error) {
	path := stringSetting(cmd, "profile", settings.Profile)
	opts, err := profileOptions()
	if err != nil {
		return nil, path, err
	}
	res, created, err := profile.LoadOrCreate(path, opts)
	if err != nil {
		return nil, path, err
	}
	if created {
		logger.Info("wrote default profile", "path", path)
	}
	res.LogWarnings(logger)
	logger.Info("loaded profile", "path", path, "buttons", len(res.Profile))
	return res, path, nil
}

// resolveScreen prefers --screen, then the profile directive, then settings.
func resolveScreen(cmd *cobra.Command, res *profile.Result) (model.Screen, error) {
	if cmd.Flags().Changed("screen") {
		v, _ := cmd.Flags().GetString("screen")
		return model.ParseScreen(v)
	}
	if res != nil && res.Screen != nil {
		return *res.Screen, nil
	}
	return settings.ScreenSize()
}

// engine is an opened backend with the mouse controller and executor on top.
type engine struct {
	provider *platform.Provider
	mouse    *mouse.Controller
	exec     *executor.Executor
}

// newEngine opens the backend named by --backend, synchronizes the mouse and
// builds the executor for res.
func newEngine(cmd *cobra.Command, res *profile.Result, defaultBackend string, opts ...executor.Option) (*engine, error) {
	screen, err := resolveScreen(cmd, res)
	if err != nil {
		return nil, err
	}
	name := stringSetting(cmd, "backend", defaultBackend)
	provider, err := platform.NewProvider(name, platform.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info("input backend ready", "backend", provider.Name)

	e := &engine{provider: provider}
	var ptr executor.Pointer
	if provider.Mouse != nil {
		ctrl, err := mouse.New(provider.Mouse, screen, mouse.WithLogger(logger))
		if err != nil {
			_ = provider.Shutdown()
			return nil, err
		}
		if noReset, _ := cmd.Flags().GetBool("no-reset"); noReset {
			logger.Info("mouse reset skipped")
		} else if err := ctrl.Reset(); err != nil {
			logger.Warn("mouse reset failed, absolute moves are unavailable", "err", err)
		}
		e.mouse = ctrl
		ptr = ctrl
	}
	opts = append([]executor.Option{executor.WithLogger(logger)}, opts...)
	e.exec = executor.New(res.Profile, provider.Keyboard, ptr, opts...)
	return e, nil
}

// Close releases every held key before shutting the backend down.
func (e *engine) Close() error {
	e.exec.ReleaseAll()
	return e.provider.Shutdown()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func requireButton(arg string) (model.ButtonID, error) {
	id, err := model.ParseButtonID(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid button: %w", err)
	}
	return id, nil
}
