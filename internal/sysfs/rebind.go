package sysfs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Overridable for tests.
var (
	unbindPath = "/sys/bus/usb/drivers/usbhid/unbind"
	bindPath   = "/sys/bus/usb/drivers/usbhid/bind"

	sleep  = time.Sleep
	runCmd = func(cmd *exec.Cmd) error { return cmd.Run() }
)

// rebindPause gives the kernel time to release the device between the
// unbind and bind writes.
const rebindPause = 200 * time.Millisecond

// Rebind detaches and reattaches the generic usbhid driver for the given
// physical bus segment, restoring normal keyboard input after direct
// feature-report control. Best effort: a permission failure escalates
// through pkexec, and if that also fails the rebind is abandoned.
func Rebind(phys string) {
	if phys == "" {
		return
	}
	err := writeDriverControl(phys)
	if err == nil {
		return
	}
	if !errors.Is(err, os.ErrPermission) {
		slog.Warn("driver rebind failed", slog.String("phys", phys), slog.Any("error", err))
		return
	}
	rebindPrivileged(phys)
}

func writeDriverControl(phys string) error {
	if err := os.WriteFile(unbindPath, []byte(phys), 0o200); err != nil {
		return err
	}
	sleep(rebindPause)
	return os.WriteFile(bindPath, []byte(phys), 0o200)
}

func rebindPrivileged(phys string) {
	script := fmt.Sprintf("echo %q > %s; sleep 0.2; echo %q > %s",
		phys, unbindPath, phys, bindPath)
	if err := runCmd(exec.Command("pkexec", "bash", "-c", script)); err != nil {
		slog.Debug("privileged rebind failed", slog.String("phys", phys), slog.Any("error", err))
	}
}
