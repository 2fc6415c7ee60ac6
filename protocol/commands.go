package protocol

import (
	"fmt"
	"strconv"
)

// DownloadConfig describes one `dfu-util --download` run.
type DownloadConfig struct {
	// DevNum selects the device
	DevNum int

	// Alt selects the alternate setting (memory region)
	Alt int

	// Address is the DfuSe load address
	Address uint32

	// Firmware is the path of the image file
	Firmware string

	// Reset issues a USB reset once the download has finished
	Reset bool
}

// ListArgs returns the arguments that list DFU capable devices.
func ListArgs() []string {
	return []string{FlagList}
}

// DetachArgs returns the arguments that detach the device with the given
// enumeration number into its bootloader.
func DetachArgs(devNum int) []string {
	return []string{FlagDevNum, strconv.Itoa(devNum), FlagDetach}
}

// DownloadArgs returns the arguments that write cfg.Firmware to the device.
//
// Argument structure:
//
//	--devnum N --alt A --dfuse-address 0xAAAAAAAA:leave --download PATH [--reset]
func DownloadArgs(cfg DownloadConfig) ([]string, error) {
	if cfg.DevNum < 0 {
		return nil, fmt.Errorf("invalid devnum %d", cfg.DevNum)
	}
	if cfg.Alt < 0 {
		return nil, fmt.Errorf("invalid alt setting %d", cfg.Alt)
	}
	if cfg.Firmware == "" {
		return nil, fmt.Errorf("firmware path is empty")
	}

	args := []string{
		FlagDevNum, strconv.Itoa(cfg.DevNum),
		FlagAlt, strconv.Itoa(cfg.Alt),
		FlagDfuseAddress, DfuseAddress(cfg.Address),
		FlagDownload, cfg.Firmware,
	}
	if cfg.Reset {
		args = append(args, FlagReset)
	}
	return args, nil
}

// DfuseAddress formats the --dfuse-address value for address, including the
// leave modifier.
func DfuseAddress(address uint32) string {
	return fmt.Sprintf("0x%08x:%s", address, LeaveModifier)
}
