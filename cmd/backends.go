package cmd

import (
	// Registers the logging backend on every platform.
	_ "github.com/mj1618/macropad/internal/platform/dryrun"
)
