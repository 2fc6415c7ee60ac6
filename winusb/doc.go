// Package winusb defines the WinUSB driver installation capability.
//
// On Windows the STM32 DFU bootloader has no driver bound by default, so
// dfu-util cannot open it until a WinUSB driver is installed. Installation is
// platform specific and performed by an external installer; this package
// only defines its interface, a Guard that rejects concurrent installations,
// and an Unavailable implementation for platforms that do not need drivers.
//
//	inst := winusb.NewGuard(platformInstaller)
//	devices, err := inst.Candidates(ctx)
//	...
//	err = inst.Install(ctx, winusb.DefaultInstallConfig(), devices, onProgress)
//	if errors.Is(err, winusb.ErrOngoing) {
//	    // another installation is running
//	}
package winusb
