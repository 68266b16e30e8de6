//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}
*/
import "C"
import "fmt"

// CheckAccessibilityPermission reports an error with instructions when the
// process may not post synthetic input events.
func CheckAccessibilityPermission() error {
	if C.is_trusted() == 0 {
		return fmt.Errorf(
			"accessibility permission required to inject input\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
				"Add the terminal or launch agent that runs macropad, then restart it.")
	}
	return nil
}
