package cmd

import (
	_ "github.com/mj1618/macropad/internal/platform/darwin"
)
