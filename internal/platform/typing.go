package platform

import (
	"errors"
	"fmt"

	"github.com/mj1618/macropad/internal/model"
)

// KeySwitch is the press/release half of a Keyboard. Backends without a
// native text path implement TypeText with TypeKeys on top of it.
type KeySwitch interface {
	PressKey(k model.Key) error
	ReleaseKey(k model.Key) error
}

// ErrUntypeable is wrapped for runes with no key on the US layout.
var ErrUntypeable = errors.New("character cannot be typed")

// TypeKeys types s as key taps, holding left shift where the US layout
// needs it. Untypeable runes are skipped and reported in the returned error
// after the rest of the text has been typed.
func TypeKeys(kbd KeySwitch, s string) error {
	var skipped []rune
	for _, r := range s {
		k, shift, ok := model.KeyForRune(r)
		if !ok {
			skipped = append(skipped, r)
			continue
		}
		if err := tap(kbd, k, shift); err != nil {
			return fmt.Errorf("type %q: %w", r, err)
		}
	}
	if len(skipped) > 0 {
		return fmt.Errorf("%w: %q", ErrUntypeable, string(skipped))
	}
	return nil
}

func tap(kbd KeySwitch, k model.Key, shift bool) error {
	if shift {
		if err := kbd.PressKey(model.KeyLeftShift); err != nil {
			return err
		}
	}
	pressErr := kbd.PressKey(k)
	releaseErr := kbd.ReleaseKey(k)
	var shiftErr error
	if shift {
		shiftErr = kbd.ReleaseKey(model.KeyLeftShift)
	}
	return errors.Join(pressErr, releaseErr, shiftErr)
}
