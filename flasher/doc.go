// Package flasher provides a high-level API for flashing firmware with dfu-util.
//
// # Overview
//
// This package orchestrates the complete flashing sequence:
//   - Listing DFU capable devices reported by `dfu-util --list`
//   - Selecting the one device to operate on
//   - Detaching an application-mode device into its bootloader
//   - Downloading the firmware image while reporting live progress
//
// The DFU protocol itself is implemented by dfu-util. This package only runs
// it and interprets its output.
//
// # Basic Usage
//
//	f := flasher.New()
//
//	dev, err := f.EnterBootloader(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = f.FlashImage(ctx, image, flasher.Request{
//	    DevNum:  dev.DevNum,
//	    Alt:     protocol.DefaultAlt,
//	    Address: protocol.DefaultAddress,
//	}, nil)
//
// # Progress Tracking
//
// Flash calls the progress callback once per progress line printed by
// dfu-util, in output order, as the line is printed. Callbacks run on the
// goroutine that called Flash; a UI that needs its own thread must hand the
// event over itself.
//
//	_, err := f.Flash(ctx, req, func(p protocol.Progress) {
//	    fmt.Printf("%s: %d bytes\n", p.Stage, p.Bytes)
//	})
//
// # Configuration Options
//
//	f := flasher.New(
//	    flasher.WithBinary("/opt/dfu-util/bin/dfu-util"),
//	    flasher.WithBootloaderID(protocol.STM32BootloaderID),
//	    flasher.WithApplicationID(protocol.KeyboardID),
//	    flasher.WithLogger(flasher.NewLogrusLogger(logrus.StandardLogger())),
//	)
//
// # Error Handling
//
// The package provides structured error types:
//   - ProcessError: dfu-util exited non-zero or reported a failure on stderr
//   - InvalidPathError: the firmware path cannot be passed on the command line
//   - TimeoutError: the bootloader did not appear after a detach
//   - ErrNoDeviceFound: no device matched the configured USB IDs
//
// Nothing is retried. A failed Flash must be repeated from the start.
//
// # Cancellation
//
// Every operation takes a context. Cancelling it kills the running dfu-util
// process and the operation returns an error wrapping the context error.
package flasher
