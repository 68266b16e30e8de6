//go:build darwin && cgo

package darwin

import "github.com/mj1618/macropad/internal/platform"

func init() {
	platform.Register(platform.Backend{
		Name:     "darwin",
		Priority: 30,
		New: func(opts platform.Options) (*platform.Provider, error) {
			if err := CheckAccessibilityPermission(); err != nil {
				return nil, err
			}
			inp := NewInputter()
			return &platform.Provider{Name: "darwin", Keyboard: inp, Mouse: inp}, nil
		},
	})
}
