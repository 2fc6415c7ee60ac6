package flasher

import (
	"time"

	"github.com/moffa90/go-dfuutil/protocol"
)

// Config holds the flasher configuration.
type Config struct {
	// Binary is the dfu-util executable, looked up in PATH if it has no separator
	Binary string

	// BaseArgs are passed to Binary before the operation's own arguments
	BaseArgs []string

	// Env is appended to the current environment of spawned processes
	Env []string

	// BootloaderID is the USB ID of the device in DFU bootloader mode
	BootloaderID protocol.USBID

	// ApplicationID is the USB ID of the device running its application
	ApplicationID protocol.USBID

	// PollInterval is the delay between listings while waiting for the
	// bootloader to appear after a detach
	PollInterval time.Duration

	// DetachTimeout bounds the wait for the bootloader after a detach
	DetachTimeout time.Duration

	// ProgressCallback is used by Flash when it is called without one (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Binary:        protocol.DefaultBinary,
		BootloaderID:  protocol.STM32BootloaderID,
		ApplicationID: protocol.KeyboardID,
		PollInterval:  500 * time.Millisecond,
		DetachTimeout: 10 * time.Second,
	}
}

// Option is a functional option for configuring the Flasher.
type Option func(*Config)

// WithBinary sets the dfu-util executable. Empty values are ignored.
//
// Example:
//
//	f := flasher.New(flasher.WithBinary(os.Getenv("DFU_UTIL")))
func WithBinary(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.Binary = path
		}
	}
}

// WithBaseArgs sets arguments passed before every operation's own arguments.
// This is mostly useful to run a wrapper or a stub of dfu-util.
func WithBaseArgs(args ...string) Option {
	return func(c *Config) {
		c.BaseArgs = append([]string(nil), args...)
	}
}

// WithEnv adds "KEY=value" entries to the environment of spawned processes.
func WithEnv(env ...string) Option {
	return func(c *Config) {
		c.Env = append(c.Env, env...)
	}
}

// WithBootloaderID sets the USB ID of the DFU bootloader.
func WithBootloaderID(id protocol.USBID) Option {
	return func(c *Config) {
		c.BootloaderID = id
	}
}

// WithApplicationID sets the USB ID of the application that supports detach.
func WithApplicationID(id protocol.USBID) Option {
	return func(c *Config) {
		c.ApplicationID = id
	}
}

// WithPollInterval sets the delay between listings after a detach.
//
// Example:
//
//	f := flasher.New(flasher.WithPollInterval(250*time.Millisecond))
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.PollInterval = d
		}
	}
}

// WithDetachTimeout sets how long to wait for the bootloader after a detach.
func WithDetachTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DetachTimeout = d
		}
	}
}

// WithProgressCallback sets the default progress callback.
//
// Example:
//
//	f := flasher.New(
//	    flasher.WithProgressCallback(func(p protocol.Progress) {
//	        fmt.Printf("%s %d\n", p.Stage, p.Bytes)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the flasher operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
