package protocol

// DefaultBinary is the name of the dfu-util executable looked up in PATH.
const DefaultBinary = "dfu-util"

// Command-line flags understood by dfu-util.
const (
	// FlagList lists the DFU capable devices
	FlagList = "--list"

	// FlagDevNum selects a device by its enumeration number
	FlagDevNum = "--devnum"

	// FlagAlt selects the DFU alternate setting
	FlagAlt = "--alt"

	// FlagDetach asks a runtime-mode device to reboot into its bootloader
	FlagDetach = "--detach"

	// FlagDfuseAddress sets the DfuSe target address and modifiers
	FlagDfuseAddress = "--dfuse-address"

	// FlagDownload writes a file to the device
	FlagDownload = "--download"

	// FlagReset issues a USB reset after the operation
	FlagReset = "--reset"
)

// LeaveModifier is appended to the DfuSe address to make the device leave
// DFU mode once the download has finished.
const LeaveModifier = "leave"

// DetachErrorMarker is printed by dfu-util when a detach request fails.
// Some versions exit with status 0 even then.
const DetachErrorMarker = "error detaching"

// Known devices.
var (
	// STM32BootloaderID is the ST system memory DFU bootloader
	STM32BootloaderID = USBID{Vendor: 0x0483, Product: 0xdf11}

	// KeyboardID is the application-mode keyboard firmware, which supports DFU detach
	KeyboardID = USBID{Vendor: 0x16c0, Product: 0x27db}
)

// Download defaults for STM32 parts.
const (
	// DefaultAlt is the alternate setting of the internal flash
	DefaultAlt = 0

	// DefaultAddress is the start of the STM32 internal flash
	DefaultAddress = 0x08000000
)
