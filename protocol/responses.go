package protocol

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/moffa90/go-dfuutil/lines"
)

var (
	typeRe   = regexp.MustCompile(`(?i)found (dfu|runtime)`)
	vidPidRe = regexp.MustCompile(`\[([[:xdigit:]]+):([[:xdigit:]]+)\]`)
	devNumRe = regexp.MustCompile(`devnum=(\d+)`)
	altRe    = regexp.MustCompile(`alt=(\d+)`)
	nameRe   = regexp.MustCompile(`name="([^"]*)"`)
	pathRe   = regexp.MustCompile(`path="([^"]*)"`)

	// e.g. "Download	[================         ]  64%        28672 bytes"
	progressRe = regexp.MustCompile(`([[:alpha:]]+)\s*\[[^\]]*\]\s*(\d+)%\s*(\d+)\s+bytes`)
)

// ParseDevice parses a single line of `dfu-util --list` output.
// The type marker, [vid:pid], devnum=N and alt=N may appear in any order.
// They are checked in that order and the first one missing is reported in a
// *ListParseError.
func ParseDevice(line string) (Device, error) {
	s := strings.TrimSpace(line)

	typ := typeRe.FindStringSubmatch(s)
	if typ == nil {
		return Device{}, &ListParseError{Field: FieldType, Line: s}
	}
	vidPid := vidPidRe.FindStringSubmatch(s)
	if vidPid == nil {
		return Device{}, &ListParseError{Field: FieldVIDPID, Line: s}
	}
	devNum := devNumRe.FindStringSubmatch(s)
	if devNum == nil {
		return Device{}, &ListParseError{Field: FieldDevNum, Line: s}
	}
	alt := altRe.FindStringSubmatch(s)
	if alt == nil {
		return Device{}, &ListParseError{Field: FieldAlt, Line: s}
	}

	vid, err := strconv.ParseUint(vidPid[1], 16, 16)
	if err != nil {
		return Device{}, &ListParseError{Field: FieldVIDPID, Line: s, Err: err}
	}
	pid, err := strconv.ParseUint(vidPid[2], 16, 16)
	if err != nil {
		return Device{}, &ListParseError{Field: FieldVIDPID, Line: s, Err: err}
	}
	n, err := strconv.Atoi(devNum[1])
	if err != nil {
		return Device{}, &ListParseError{Field: FieldDevNum, Line: s, Err: err}
	}
	a, err := strconv.Atoi(alt[1])
	if err != nil {
		return Device{}, &ListParseError{Field: FieldAlt, Line: s, Err: err}
	}

	dev := Device{
		IsBootloader: strings.EqualFold(typ[1], "dfu"),
		ID:           USBID{Vendor: uint16(vid), Product: uint16(pid)},
		DevNum:       n,
		Alt:          a,
	}
	if m := nameRe.FindStringSubmatch(s); m != nil {
		dev.Name = m[1]
	}
	if m := pathRe.FindStringSubmatch(s); m != nil {
		dev.Path = m[1]
	}
	return dev, nil
}

// ParseDevices parses every device entry in text. Lines that are not device
// entries (banners, blank lines, warnings) are skipped.
func ParseDevices(text string) []Device {
	var devices []Device
	for _, line := range lines.FromString(text) {
		dev, err := ParseDevice(line)
		if err != nil {
			continue
		}
		devices = append(devices, dev)
	}
	return devices
}

// ParseProgress parses a single progress line of `dfu-util --download`
// output. It returns false for any line that is not an erase or download
// progress report.
func ParseProgress(line string) (Progress, bool) {
	m := progressRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Progress{}, false
	}

	percent, err := strconv.Atoi(m[2])
	if err != nil {
		return Progress{}, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return Progress{}, false
	}

	p := Progress{Bytes: n, Percent: percent}
	switch strings.ToLower(m[1]) {
	case "erase":
		p.Stage = StageErase
	case "download":
		p.Stage = StageDownload
	default:
		return Progress{}, false
	}
	return p, true
}

// IsDetachFailure reports whether dfu-util's stderr text says that a detach
// request failed.
func IsDetachFailure(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), DetachErrorMarker)
}
