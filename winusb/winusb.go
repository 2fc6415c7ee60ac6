package winusb

import (
	"context"
	"fmt"
	"sync"

	"github.com/moffa90/go-dfuutil/protocol"
	"github.com/pkg/errors"
)

// Driver installation defaults for the STM32 bootloader.
const (
	DefaultVendor     = "inscrib.io"
	DefaultDriverPath = `C:\usb_driver`
	DefaultInfName    = "STM32BootloaderWinUSB.inf"
)

var (
	// ErrOngoing indicates that an installation is already running
	ErrOngoing = errors.New("driver installation is already in progress")

	// ErrUnsupported indicates that driver installation is not available
	// on this platform
	ErrUnsupported = errors.New("driver installation is not supported on this platform")
)

// Device is a USB device visible to the installer.
type Device struct {
	// ID is the USB vendor/product ID
	ID protocol.USBID

	// Description is the device description reported by the system
	Description string

	// Driver is the name of the bound driver, empty if none
	Driver string
}

// HasWinUSB reports whether the WinUSB driver is bound to the device.
func (d Device) HasWinUSB() bool {
	return d.Driver == "WinUSB"
}

// InstallConfig describes the generated driver package.
type InstallConfig struct {
	Vendor     string
	DriverPath string
	InfName    string
}

// DefaultInstallConfig returns the driver package settings for the STM32
// bootloader.
func DefaultInstallConfig() InstallConfig {
	return InstallConfig{
		Vendor:     DefaultVendor,
		DriverPath: DefaultDriverPath,
		InfName:    DefaultInfName,
	}
}

// Progress is reported by an installer while it works.
type Progress struct {
	// Device is the device being processed
	Device Device

	// Message describes the current step
	Message string

	// Done is true once the device has been processed
	Done bool
}

// Installer installs USB drivers.
type Installer interface {
	// Candidates returns the devices currently visible to the installer
	Candidates(ctx context.Context) ([]Device, error)

	// Install installs the driver for devices, reporting progress as it goes
	Install(ctx context.Context, cfg InstallConfig, devices []Device, onProgress func(Progress)) error
}

// IoError is an installer failure, reduced to its message.
type IoError struct {
	Msg string
}

func (e *IoError) Error() string {
	return fmt.Sprintf("driver installation failed: %s", e.Msg)
}

// Unavailable is the Installer for platforms that need no driver installation.
type Unavailable struct{}

// Candidates always fails with ErrUnsupported.
func (Unavailable) Candidates(ctx context.Context) ([]Device, error) {
	return nil, ErrUnsupported
}

// Install always fails with ErrUnsupported.
func (Unavailable) Install(ctx context.Context, cfg InstallConfig, devices []Device, onProgress func(Progress)) error {
	return ErrUnsupported
}

// Available reports whether inst can actually install drivers.
func Available(inst Installer) bool {
	switch i := inst.(type) {
	case nil, Unavailable, *Unavailable:
		return false
	case *Guard:
		return Available(i.inst)
	default:
		return true
	}
}

// NeedsInstall reports whether d is a bootloader without the WinUSB driver.
func NeedsInstall(d Device, bootloader protocol.USBID) bool {
	return d.ID == bootloader && !d.HasWinUSB()
}

// Guard serialises access to an Installer. Calls made while another call is
// running fail immediately with ErrOngoing instead of waiting.
type Guard struct {
	mu         sync.Mutex
	inst       Installer
	bootloader protocol.USBID
}

// NewGuard wraps inst. Candidates are filtered to STM32 bootloaders that
// still need a driver.
func NewGuard(inst Installer) *Guard {
	return &Guard{inst: inst, bootloader: protocol.STM32BootloaderID}
}

// Candidates returns the devices that need a driver.
func (g *Guard) Candidates(ctx context.Context) ([]Device, error) {
	if !g.mu.TryLock() {
		return nil, ErrOngoing
	}
	defer g.mu.Unlock()

	devices, err := g.inst.Candidates(ctx)
	if err != nil {
		return nil, toIoError(err)
	}

	var out []Device
	for _, d := range devices {
		if NeedsInstall(d, g.bootloader) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Install runs the wrapped installer unless another call is in progress.
func (g *Guard) Install(ctx context.Context, cfg InstallConfig, devices []Device, onProgress func(Progress)) error {
	if !g.mu.TryLock() {
		return ErrOngoing
	}
	defer g.mu.Unlock()

	if onProgress == nil {
		onProgress = func(Progress) {}
	}
	if err := g.inst.Install(ctx, cfg, devices, onProgress); err != nil {
		return toIoError(err)
	}
	return nil
}

// toIoError keeps sentinel errors and reduces everything else to an IoError.
func toIoError(err error) error {
	var ioErr *IoError
	if errors.Is(err, ErrUnsupported) || errors.Is(err, ErrOngoing) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &ioErr) {
		return err
	}
	return &IoError{Msg: err.Error()}
}
