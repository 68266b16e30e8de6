package cmd

import (
	_ "github.com/mj1618/macropad/internal/platform/uinput"
	_ "github.com/mj1618/macropad/internal/platform/x11"
)
