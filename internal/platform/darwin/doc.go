//go:build darwin

// Package darwin injects keyboard and mouse input on macOS using CoreGraphics
// events. Injection requires CGo and the Accessibility permission.
// When CGo is disabled, the package registers no backend.
package darwin
