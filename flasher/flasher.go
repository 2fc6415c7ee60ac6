package flasher

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arduino/go-paths-helper"
	"github.com/moffa90/go-dfuutil/firmware"
	"github.com/moffa90/go-dfuutil/protocol"
	"github.com/pkg/errors"
)

// Flasher runs dfu-util to list, detach and flash devices.
//
// A Flasher holds only immutable configuration. Each operation spawns one
// dfu-util process and waits for it, so a Flasher may be shared between
// goroutines; serialising access to the physical device is up to the caller.
type Flasher struct {
	config Config
}

// Request describes a single firmware download.
type Request struct {
	// DevNum selects the device, as reported by List
	DevNum int

	// Alt selects the alternate setting (memory region)
	Alt int

	// Address is the load address
	Address uint32

	// Firmware is the image file. It must exist until Flash returns.
	Firmware *paths.Path

	// Reset issues a USB reset after the download
	Reset bool
}

// Result is the outcome of a successful download.
type Result struct {
	// Stdout is dfu-util's standard output
	Stdout string

	// Stderr is dfu-util's standard error. dfu-util prints informational
	// messages there even when it succeeds.
	Stderr string

	// Events is the number of progress events delivered
	Events int

	// Elapsed is the wall time of the dfu-util process
	Elapsed time.Duration
}

// New creates a new Flasher with the given options.
//
// Example:
//
//	f := flasher.New(
//	    flasher.WithBinary("dfu-util"),
//	    flasher.WithLogger(myLogger),
//	)
func New(opts ...Option) *Flasher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Flasher{config: cfg}
}

// Config returns a copy of the flasher configuration.
func (f *Flasher) Config() Config {
	return f.config
}

// List runs `dfu-util --list` and returns every device entry it reports.
// dfu-util prints the listing on stdout or stderr depending on version and
// platform, so both are scanned. A non-zero exit status is a *ProcessError
// even if some entries could be parsed.
func (f *Flasher) List(ctx context.Context) ([]protocol.Device, error) {
	stdout, stderr, err := f.run(ctx, "list", protocol.ListArgs()...)
	if err != nil {
		return nil, err
	}

	devices := protocol.ParseDevices(stdout + "\n" + stderr)
	f.logDebug("listed devices", "count", len(devices))
	return devices, nil
}

// Select picks the device to operate on from a listing.
//
// Entries matching bootloader are preferred over entries matching
// application. Among several matches of the same kind the first one listed
// wins; this is not necessarily the most recently connected device.
// ErrNoDeviceFound is returned if nothing matches.
func Select(devices []protocol.Device, bootloader, application protocol.USBID) (protocol.Device, error) {
	for _, d := range devices {
		if d.ID == bootloader {
			return d, nil
		}
	}
	for _, d := range devices {
		if d.ID == application {
			return d, nil
		}
	}
	return protocol.Device{}, ErrNoDeviceFound
}

// Select picks a device using the configured USB IDs and logs a warning
// when the choice is ambiguous.
func (f *Flasher) Select(devices []protocol.Device) (protocol.Device, error) {
	dev, err := Select(devices, f.config.BootloaderID, f.config.ApplicationID)
	if err != nil {
		return dev, err
	}

	var bootloaders, applications int
	for _, d := range devices {
		switch d.ID {
		case f.config.BootloaderID:
			bootloaders++
		case f.config.ApplicationID:
			applications++
		}
	}
	if bootloaders+applications > 1 {
		f.logWarn("found multiple supported entries",
			"bootloaders", bootloaders,
			"applications", applications,
			"selected", dev.String(),
		)
	}
	return dev, nil
}

// FindDevice lists devices and selects one.
func (f *Flasher) FindDevice(ctx context.Context) (protocol.Device, error) {
	devices, err := f.List(ctx)
	if err != nil {
		return protocol.Device{}, err
	}
	return f.Select(devices)
}

// Detach asks the device with the given enumeration number to reboot into
// its bootloader. Some dfu-util versions exit with status 0 after a failed
// detach, so stderr is checked for the failure marker as well.
func (f *Flasher) Detach(ctx context.Context, devNum int) error {
	args := protocol.DetachArgs(devNum)

	stdout, stderr, err := f.run(ctx, "detach", args...)
	if err != nil {
		return err
	}

	if protocol.IsDetachFailure(stderr) {
		return &ProcessError{
			Op:     "detach",
			Args:   args,
			Stdout: stdout,
			Stderr: stderr,
		}
	}

	f.logInfo("detached device", "devnum", devNum)
	return nil
}

// EnterBootloader returns a device in DFU bootloader mode. If the selected
// device is still running its application it is detached first, and the
// listing is polled until the bootloader shows up.
func (f *Flasher) EnterBootloader(ctx context.Context) (protocol.Device, error) {
	dev, err := f.FindDevice(ctx)
	if err != nil {
		return protocol.Device{}, err
	}
	if dev.IsBootloader {
		return dev, nil
	}

	f.logInfo("device is running its application, detaching", "device", dev.String())
	if err := f.Detach(ctx, dev.DevNum); err != nil {
		return protocol.Device{}, errors.Wrap(err, "detach")
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.config.DetachTimeout)
	defer cancel()

	ticker := time.NewTicker(f.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return protocol.Device{}, errors.Wrap(err, "waiting for bootloader")
			}
			return protocol.Device{}, &TimeoutError{Timeout: f.config.DetachTimeout}
		case <-ticker.C:
		}

		devices, err := f.List(waitCtx)
		if err != nil {
			f.logDebug("listing failed while waiting for bootloader", "error", err)
			continue
		}
		for _, d := range devices {
			if d.IsBootloader && d.ID == f.config.BootloaderID {
				f.logInfo("bootloader appeared", "device", d.String())
				return d, nil
			}
		}
	}
}

// Flash downloads req.Firmware to the device.
//
// onProgress (or the configured default callback if onProgress is nil) is
// called on the calling goroutine for every progress line, in the order
// dfu-util printed them, while dfu-util is running. Lines that are not
// progress reports are dropped. Flash returns only after dfu-util exited.
//
// A non-zero exit status is a *ProcessError. Progress events delivered
// before the failure are not undone; the download must be repeated.
func (f *Flasher) Flash(ctx context.Context, req Request, onProgress ProgressCallback) (*Result, error) {
	path, err := validatePath(req.Firmware)
	if err != nil {
		return nil, err
	}

	args, err := protocol.DownloadArgs(protocol.DownloadConfig{
		DevNum:   req.DevNum,
		Alt:      req.Alt,
		Address:  req.Address,
		Firmware: path,
		Reset:    req.Reset,
	})
	if err != nil {
		return nil, err
	}

	if onProgress == nil {
		onProgress = f.config.ProgressCallback
	}

	f.logInfo("starting download",
		"devnum", req.DevNum,
		"alt", req.Alt,
		"address", protocol.DfuseAddress(req.Address),
		"firmware", path,
	)

	result := &Result{}
	start := time.Now()

	stdout, stderr, err := f.stream(ctx, "download", args, func(line string) {
		p, ok := protocol.ParseProgress(line)
		if !ok {
			return
		}
		result.Events++
		if onProgress != nil {
			onProgress(p)
		}
	})
	result.Elapsed = time.Since(start)
	if err != nil {
		f.logError("download failed", "devnum", req.DevNum, "error", err)
		return nil, err
	}

	result.Stdout = stdout
	result.Stderr = stderr

	f.logInfo("download complete",
		"devnum", req.DevNum,
		"events", result.Events,
		"elapsed", result.Elapsed.String(),
	)
	return result, nil
}

// FlashImage stages image in a temporary file and flashes it. req.Firmware
// is ignored. The file is removed after dfu-util has exited.
func (f *Flasher) FlashImage(ctx context.Context, image []byte, req Request, onProgress ProgressCallback) (*Result, error) {
	staged, err := firmware.Stage(image)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := staged.Remove(); err != nil {
			f.logError("failed to remove staged firmware", "error", err)
		}
	}()

	f.logDebug("staged firmware", "path", staged.Path().String(), "size", staged.Size())

	req.Firmware = staged.Path()
	return f.Flash(ctx, req, onProgress)
}

// validatePath checks that p can be passed as a dfu-util argument.
func validatePath(p *paths.Path) (string, error) {
	if p == nil {
		return "", &InvalidPathError{}
	}

	s := p.String()
	if s == "" || !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return "", &InvalidPathError{Path: s}
	}
	return s, nil
}

// logDebug logs a debug message if a logger is configured.
func (f *Flasher) logDebug(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (f *Flasher) logInfo(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Info(msg, keysAndValues...)
	}
}

// logWarn logs a warning if a logger is configured.
func (f *Flasher) logWarn(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Warn(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (f *Flasher) logError(msg string, keysAndValues ...interface{}) {
	if f.config.Logger != nil {
		f.config.Logger.Error(msg, keysAndValues...)
	}
}
