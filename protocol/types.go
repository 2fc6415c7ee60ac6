package protocol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// USBID is a USB vendor/product ID pair.
type USBID struct {
	Vendor  uint16
	Product uint16
}

// String returns the ID in lsusb notation, e.g. "0483:df11".
func (id USBID) String() string {
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// ParseUSBID parses an ID in "vvvv:pppp" hexadecimal notation.
func ParseUSBID(s string) (USBID, error) {
	vid, pid, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return USBID{}, fmt.Errorf("invalid USB ID %q: expected vid:pid", s)
	}
	v, err := strconv.ParseUint(vid, 16, 16)
	if err != nil {
		return USBID{}, fmt.Errorf("invalid vendor ID %q: %w", vid, err)
	}
	p, err := strconv.ParseUint(pid, 16, 16)
	if err != nil {
		return USBID{}, fmt.Errorf("invalid product ID %q: %w", pid, err)
	}
	return USBID{Vendor: uint16(v), Product: uint16(p)}, nil
}

// Device is one entry of `dfu-util --list` output.
// dfu-util prints one entry per alternate setting, so a physical device
// usually appears several times with the same DevNum.
type Device struct {
	// IsBootloader is true for "Found DFU" entries and false for
	// "Found Runtime" entries (application firmware still running)
	IsBootloader bool

	// ID is the USB vendor/product ID
	ID USBID

	// DevNum is the enumeration number used to address the device.
	// It is not stable across reconnects.
	DevNum int

	// Alt is the DFU alternate setting
	Alt int

	// Name is the alternate setting name, if reported
	Name string

	// Path is the USB port path, if reported
	Path string
}

// String returns a short human-readable description.
func (d Device) String() string {
	mode := "Runtime"
	if d.IsBootloader {
		mode = "DFU"
	}
	return fmt.Sprintf("devnum=%d %s alt=%d (%s)", d.DevNum, d.ID, d.Alt, mode)
}

// UniqueDevices returns the first entry for every DevNum, in input order.
func UniqueDevices(devices []Device) []Device {
	seen := make(map[int]bool, len(devices))
	out := make([]Device, 0, len(devices))
	for _, d := range devices {
		if seen[d.DevNum] {
			continue
		}
		seen[d.DevNum] = true
		out = append(out, d)
	}
	return out
}

// Stage is the phase reported by a download progress line.
type Stage int

const (
	// StageErase is reported while DfuSe pages are erased
	StageErase Stage = iota

	// StageDownload is reported while data is written
	StageDownload
)

func (s Stage) String() string {
	switch s {
	case StageErase:
		return "Erase"
	case StageDownload:
		return "Download"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Progress is a parsed progress line.
type Progress struct {
	// Stage is the current phase
	Stage Stage

	// Bytes is the cumulative byte count for the current phase
	Bytes int

	// Percent is the rounded percentage printed by dfu-util.
	// Prefer computing it from Bytes and the image size.
	Percent int
}

// MarshalJSON encodes the event as {"Erase": n} or {"Download": n}.
func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{p.Stage.String(): p.Bytes})
}
